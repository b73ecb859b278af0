package timezone

import "time"

const DefaultTimezone = "America/Sao_Paulo"

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

// Location devolve o fuso informado ou o padrão da barbearia.
func Location(tz string) *time.Location {
	if loc, err := time.LoadLocation(tz); tz != "" && err == nil {
		return loc
	}
	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Clock é a fonte de "agora" dos use cases.
type Clock interface {
	Now() time.Time
	Location() *time.Location
}

type shopClock struct {
	loc *time.Location
}

// NewClock usa o relógio do sistema no fuso da barbearia.
func NewClock(tz string) Clock {
	return shopClock{loc: Location(tz)}
}

func (c shopClock) Now() time.Time {
	return time.Now().In(c.loc)
}

func (c shopClock) Location() *time.Location {
	return c.loc
}

// Fixed é um relógio parado, para testes.
type Fixed struct {
	At time.Time
}

func (f Fixed) Now() time.Time {
	return f.At
}

func (f Fixed) Location() *time.Location {
	return f.At.Location()
}

// Today devolve a data local (meia-noite UTC, hora ingênua).
func Today(c Clock) time.Time {
	n := c.Now()
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC)
}
