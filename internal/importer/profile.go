package importer

import "strings"

// profile is a known statement header. A profile with an empty Amount column
// carries separate Debit and Credit columns instead.
type profile struct {
	name        string
	date        string
	description string
	amount      string
	debit       string
	credit      string
}

func (p profile) split() bool { return p.amount == "" }

// known headers, most specific first.
var knownProfiles = []profile{
	{name: "cartão", date: "Data", description: "Descrição", debit: "Débito", credit: "Crédito"},
	{name: "conta corrente", date: "Data", description: "Histórico", debit: "Débito", credit: "Crédito"},
	{name: "extrato", date: "Data", description: "Histórico", amount: "Valor"},
	{name: "simples", date: "Data", description: "Descrição", amount: "Valor"},
}

// layout holds the column positions of a matched profile; -1 means absent.
type layout struct {
	profile     string
	date        int
	description int
	amount      int
	debit       int
	credit      int
}

// match resolves p against a header row.
func (p profile) match(header []string) (layout, bool) {
	pos := make(map[string]int, len(header))
	for i, cell := range header {
		if name := strings.TrimSpace(cell); name != "" {
			pos[strings.ToLower(name)] = i
		}
	}

	find := func(col string) int {
		if col == "" {
			return -1
		}

		if i, ok := pos[strings.ToLower(col)]; ok {
			return i
		}

		return -1
	}

	l := layout{
		profile:     p.name,
		date:        find(p.date),
		description: find(p.description),
		amount:      find(p.amount),
		debit:       find(p.debit),
		credit:      find(p.credit),
	}

	if l.date < 0 || l.description < 0 {
		return layout{}, false
	}

	if p.split() {
		return l, l.debit >= 0 && l.credit >= 0
	}

	return l, l.amount >= 0
}
