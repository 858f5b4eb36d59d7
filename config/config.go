//	Aggregator configuration for go-csvpivot.
//
//	The aggregator is configured with a values field plus optional row and
//	column fields. Fields are resolved by header name, or by numeric index
//	when the CSV has no header. Every failure is an invalid configuration
//	error with a message naming the offending field or delimiter.
package config

import (
	"fmt"
	"strconv"
	"unicode/utf8"
	"github.com/clarkk/go-csvpivot/csv"
	"github.com/clarkk/go-csvpivot/errs"
)

type (
	Config struct {
		values		string
		rows		[]string
		columns		[]string
		delimiter	string
		no_header	bool
	}

	//	Configured fields resolved to column indexes
	Indexed struct {
		Values	int
		Rows	[]int
		Columns	[]int
	}
)

func NewConfig(values string) *Config {
	return &Config{
		values: values,
	}
}

//	Fields forming the pivot table rows
func (c *Config) Rows(fields ...string) *Config {
	c.rows = append(c.rows, fields...)
	return c
}

//	Fields forming the pivot table columns
func (c *Config) Columns(fields ...string) *Config {
	c.columns = append(c.columns, fields...)
	return c
}

//	Delimiter as a string, validated as a single UTF-8 character in Sep()
func (c *Config) Delimiter(s string) *Config {
	c.delimiter = s
	return c
}

//	The CSV has no header row, fields are numeric column indexes
func (c *Config) No_header() *Config {
	c.no_header = true
	return c
}

//	Delimiter for the CSV reader. Zero means auto detection
func (c *Config) Sep() (rune, error){
	if c.delimiter == "" {
		return 0, nil
	}
	sep, size := utf8.DecodeRuneInString(c.delimiter)
	if sep == utf8.RuneError || size != len(c.delimiter) {
		return 0, errs.Invalid_config(fmt.Sprintf("delimiter '%s' is not a single UTF-8 character", c.delimiter))
	}
	return sep, nil
}

//	Resolve configured fields against the parsed table
func (c *Config) Index(t csv.Table) (Indexed, error){
	if c.values == "" {
		return Indexed{}, errs.Invalid_config("values field not defined")
	}

	idx := Indexed{
		Rows:		make([]int, len(c.rows)),
		Columns:	make([]int, len(c.columns)),
	}

	var err error
	if idx.Values, err = c.index_field(t, c.values); err != nil {
		return Indexed{}, err
	}
	for i, field := range c.rows {
		if idx.Rows[i], err = c.index_field(t, field); err != nil {
			return Indexed{}, err
		}
	}
	for i, field := range c.columns {
		if idx.Columns[i], err = c.index_field(t, field); err != nil {
			return Indexed{}, err
		}
	}
	return idx, nil
}

func (c *Config) index_field(t csv.Table, field string) (int, error){
	if c.no_header {
		i, err := strconv.Atoi(field)
		if err != nil {
			return 0, errs.Invalid_config(fmt.Sprintf("field '%s' is not a valid column index", field))
		}
		if i < 0 || i >= t.Cols() {
			return 0, errs.Invalid_config(fmt.Sprintf("field '%s' is out of range", field))
		}
		return i, nil
	}

	for i, name := range t.Header {
		if name == field {
			return i, nil
		}
	}
	return 0, errs.Invalid_config(fmt.Sprintf("field '%s' not found in headers", field))
}
