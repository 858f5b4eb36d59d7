//	Values column conversion for go-csvpivot.
//
//	The aggregation function decides the target type; every conversion
//	failure is a parsing error carrying the 0-indexed record number.
package values

import (
	"time"
	"strconv"
	"strings"
	"github.com/shopspring/decimal"
	"github.com/clarkk/go-csvpivot/errs"
	"github.com/clarkk/go-csvpivot/timef"
)

type (
	Type uint8

	Parser struct {
		parse_type	Type
		empty_zero	bool
	}

	Value struct {
		parse_type	Type
		dec			decimal.Decimal
		i			int64
		f			float64
		t			time.Time
		s			string
	}
)

const (
	DECIMAL Type = iota
	INTEGER
	FLOAT
	DATE
	TEXT
)

func NewParser(t Type) *Parser {
	return &Parser{
		parse_type: t,
	}
}

//	Treat empty fields as zero values instead of failing
func (p *Parser) Empty_zero() *Parser {
	p.empty_zero = true
	return p
}

//	Convert a values column field at the 0-indexed record line_num
func (p *Parser) Parse(line_num int, s string) (Value, error){
	s = strings.TrimSpace(s)

	if s == "" && !p.empty_zero {
		return Value{}, errs.Parsing(line_num, "empty value")
	}

	v := Value{parse_type: p.parse_type}
	switch p.parse_type {
	case DECIMAL:
		if s == "" {
			return v, nil
		}
		dec, err := decimal.NewFromString(s)
		if err != nil {
			return Value{}, errs.Parsing(line_num, err.Error())
		}
		v.dec = dec
	case INTEGER:
		if s == "" {
			return v, nil
		}
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return Value{}, errs.Parsing(line_num, err.Error())
		}
		v.i = i
	case FLOAT:
		if s == "" {
			return v, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Value{}, errs.Parsing(line_num, err.Error())
		}
		v.f = f
	case DATE:
		if s == "" {
			return Value{}, errs.Parsing(line_num, "empty date")
		}
		t, err := timef.Parse(s)
		if err != nil {
			return Value{}, errs.Parsing(line_num, err.Error())
		}
		v.t = t
	case TEXT:
		v.s = s
	}
	return v, nil
}

func (v Value) Type() Type {
	return v.parse_type
}

func (v Value) Decimal() decimal.Decimal {
	return v.dec
}

func (v Value) Int() int64 {
	return v.i
}

func (v Value) Float() float64 {
	return v.f
}

func (v Value) Date() time.Time {
	return v.t
}

func (v Value) Text() string {
	return v.s
}

//	Canonical rendering of the converted value
func (v Value) String() string {
	switch v.parse_type {
	case DECIMAL:
		return v.dec.String()
	case INTEGER:
		return strconv.FormatInt(v.i, 10)
	case FLOAT:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	case DATE:
		return timef.Date(v.t)
	default:
		return v.s
	}
}
