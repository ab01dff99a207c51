package manager

import "errors"

var ErrNoOpenPeriod = errors.New("no open period")
