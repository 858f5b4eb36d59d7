package config

import (
	"fmt"
	"testing"
	"github.com/clarkk/go-csvpivot/csv"
	"github.com/clarkk/go-csvpivot/errs"
)

type (
	tester interface {
		verify(*testing.T)
	}

	test_index struct {
		config	func(t *testing.T) *Config
		table	csv.Table
		indexed	Indexed
		error	string
	}

	test_sep struct {
		delimiter	string
		sep			rune
		error		string
	}
)

func table_header() csv.Table {
	return csv.Table{
		Header:	csv.Header{"date", "region", "product", "amount"},
		Rows:	csv.Rows{{
			Record:	0,
			Row:	[]string{"2024-01-01", "north", "widget", "10.50"},
		}},
	}
}

func table_no_header() csv.Table {
	return csv.Table{
		Rows:	csv.Rows{{
			Record:	0,
			Row:	[]string{"2024-01-01", "north", "widget", "10.50"},
		}},
	}
}

func Test_index(t *testing.T){
	t.Run("by name", func(t *testing.T){
		tests := []test_index{{
			config:	func(t *testing.T) *Config {
				return NewConfig("amount").
					Rows("region").
					Columns("product")
			},
			table:	table_header(),
			indexed: Indexed{
				Values:		3,
				Rows:		[]int{1},
				Columns:	[]int{2},
			},
		},{
			config:	func(t *testing.T) *Config {
				return NewConfig("amount").
					Rows("region", "date")
			},
			table:	table_header(),
			indexed: Indexed{
				Values:		3,
				Rows:		[]int{1, 0},
				Columns:	[]int{},
			},
		}}
		verify_test(t, tests)
	})

	t.Run("unknown field", func(t *testing.T){
		tests := []test_index{{
			config:	func(t *testing.T) *Config {
				return NewConfig("amount")
			},
			table: csv.Table{
				Header:	csv.Header{"date", "region"},
			},
			error:	"Could not properly configure the aggregator: field 'amount' not found in headers",
		},{
			config:	func(t *testing.T) *Config {
				return NewConfig("amount").
					Rows("county")
			},
			table:	table_header(),
			error:	"Could not properly configure the aggregator: field 'county' not found in headers",
		}}
		verify_test(t, tests)
	})

	t.Run("by index", func(t *testing.T){
		tests := []test_index{{
			config:	func(t *testing.T) *Config {
				return NewConfig("3").
					Rows("1").
					No_header()
			},
			table:	table_no_header(),
			indexed: Indexed{
				Values:		3,
				Rows:		[]int{1},
				Columns:	[]int{},
			},
		},{
			config:	func(t *testing.T) *Config {
				return NewConfig("amount").
					No_header()
			},
			table:	table_no_header(),
			error:	"Could not properly configure the aggregator: field 'amount' is not a valid column index",
		},{
			config:	func(t *testing.T) *Config {
				return NewConfig("4").
					No_header()
			},
			table:	table_no_header(),
			error:	"Could not properly configure the aggregator: field '4' is out of range",
		}}
		verify_test(t, tests)
	})

	t.Run("values not defined", func(t *testing.T){
		tests := []test_index{{
			config:	func(t *testing.T) *Config {
				return NewConfig("")
			},
			table:	table_header(),
			error:	"Could not properly configure the aggregator: values field not defined",
		}}
		verify_test(t, tests)
	})
}

func Test_sep(t *testing.T){
	tests := []test_sep{{
		delimiter:	"",
		sep:		0,
	},{
		delimiter:	";",
		sep:		';',
	},{
		delimiter:	"\t",
		sep:		'\t',
	},{
		delimiter:	"æ",
		sep:		'æ',
	},{
		delimiter:	";;",
		error:		"Could not properly configure the aggregator: delimiter ';;' is not a single UTF-8 character",
	},{
		delimiter:	"\xff",
		error:		"Could not properly configure the aggregator: delimiter '\xff' is not a single UTF-8 character",
	}}
	verify_test(t, tests)
}

func (i test_index) verify(t *testing.T){
	c := i.config(t)
	idx, err := c.Index(i.table)
	if i.error != "" {
		if err == nil {
			t.Fatal("Expected an error")
		}

		pivot_err, ok := err.(*errs.Error)
		if !ok {
			t.Fatalf("Expected *errs.Error, got %T", err)
		}
		if pivot_err.Kind() != errs.INVALID_CONFIGURATION {
			t.Fatalf("Expected INVALID_CONFIGURATION, got %d", pivot_err.Kind())
		}

		if err.Error() != i.error {
			t.Fatalf("Want: %s\n\nGot: %v", i.error, err)
		}
		return
	}

	if err != nil {
		t.Fatalf("Unexpected error: %s", err)
	}

	if idx.Values != i.indexed.Values {
		t.Fatalf("Expected values index %d, got %d", i.indexed.Values, idx.Values)
	}
	verify_indexes(t, i.indexed.Rows, idx.Rows)
	verify_indexes(t, i.indexed.Columns, idx.Columns)
}

func (s test_sep) verify(t *testing.T){
	sep, err := NewConfig("amount").
		Delimiter(s.delimiter).
		Sep()
	if s.error != "" {
		if err == nil {
			t.Fatal("Expected an error")
		}

		if err.Error() != s.error {
			t.Fatalf("Want: %s\n\nGot: %v", s.error, err)
		}
		return
	}

	if err != nil {
		t.Fatalf("Unexpected error: %s", err)
	}
	if sep != s.sep {
		t.Fatalf("Expected separator %q, got %q", s.sep, sep)
	}
}

func verify_indexes(t *testing.T, want, got []int){
	if len(want) != len(got) {
		t.Fatalf("Expected %d indexes, got %d", len(want), len(got))
	}
	for i := range want {
		if want[i] != got[i] {
			t.Fatalf("Expected index %d, got %d", want[i], got[i])
		}
	}
}

func verify_test[T tester](t *testing.T, tests []T){
	for i, tt := range tests {
		fmt.Println("test:", i, "\n---")
		tt.verify(t)
	}
}
