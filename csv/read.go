//	CSV reading layer for go-csvpivot.
//
//	The reader normalizes encoding, resolves the separator, checks the
//	header and hands back a Table with 0-indexed record numbers. Every
//	failure surfaces as *errs.Error.
package csv

import (
	"os"
	"fmt"
	"bytes"
	"regexp"
	"slices"
	"strings"
	"strconv"
	"encoding/csv"
	"github.com/clarkk/go-csvpivot/errs"
)

const (
	MIME_XLS	= "application/vnd.ms-excel"
	MIME_XLSX	= "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	opt_col_integrity			= "col_integrity"
	opt_remove_empty_cols		= "remove_empty_cols"
	opt_remove_overflow_cols	= "remove_overflow_cols"
	opt_optional_header			= "optional_header"
	opt_ignore_header			= "ignore_header"
)

var re_col_heading = regexp.MustCompile(`[^\pL\d]`)

type (
	Reader struct {
		options			map[string]bool

		tmp_dir			string

		src				[]byte
		src_converted	[]byte
		src_encoded		[]byte

		separator		rune
		fixed_sep		bool
		checked_header	bool
		out				Rows
		out_header		Header

		non_printable	string

		log				Log
	}

	Log		[]string
)

func NewReader(tmp_dir string) *Reader {
	return &Reader{
		options: map[string]bool{
			opt_col_integrity:			false,
			opt_remove_empty_cols:		false,
			opt_remove_overflow_cols:	false,
			opt_optional_header:		false,
			opt_ignore_header:			false,
		},
		tmp_dir: tmp_dir,
	}
}

//	Parse file
func (r *Reader) File(file, mimetype string) (Table, error){
	var err error
	r.src, err = os.ReadFile(file)
	if err != nil {
		return Table{}, errs.From(fmt.Errorf("Unable to read CSV file: %w", err))
	}
	return r.parse(mimetype)
}

//	Parse bytes
func (r *Reader) Bytes(b []byte, mimetype string) (Table, error){
	r.src = b
	return r.parse(mimetype)
}

//	Parse with a fixed delimiter instead of auto detection
func (r *Reader) Delimiter(sep rune) *Reader {
	r.separator	= sep
	r.fixed_sep	= true
	return r
}

//	Ensure colum integrity (same quantity of columns in each line)
func (r *Reader) Col_integrity() *Reader {
	r.options[opt_col_integrity] = true
	return r
}

//	Remove empty colums
func (r *Reader) Remove_empty_cols() *Reader {
	r.options[opt_remove_empty_cols] = true
	return r
}

//	Remove overflow colums
func (r *Reader) Remove_overflow_cols() *Reader {
	r.options[opt_remove_overflow_cols] = true
	return r
}

//	Optional column header
func (r *Reader) Optional_header() *Reader {
	r.options[opt_optional_header] = true
	return r
}

//	Ignore column header
func (r *Reader) Ignore_header() *Reader {
	r.options[opt_ignore_header] = true
	return r
}

func (r *Reader) Log() []string {
	return r.log
}

func (r *Reader) parse(mimetype string) (Table, error){
	r.log_options()

	if r.options[opt_optional_header] && r.options[opt_ignore_header] {
		return Table{}, errs.Invalid_config("options 'optional_header' and 'ignore_header' can not be used in conjunction")
	}

	if r.options[opt_remove_overflow_cols] && r.options[opt_ignore_header] {
		return Table{}, errs.Invalid_config("options 'remove_overflow_cols' and 'ignore_header' can not be used in conjunction")
	}

	if r.options[opt_remove_overflow_cols] && r.options[opt_col_integrity] {
		return Table{}, errs.Invalid_config("options 'remove_overflow_cols' and 'col_integrity' can not be used in conjunction")
	}

	if mimetype == MIME_XLS || mimetype == MIME_XLSX {
		if err := r.convert_xls(); err != nil {
			return Table{}, err
		}
	}

	if err := r.encoding(); err != nil {
		r.log_append(err.Error())
		return Table{}, errs.Csv(err)
	}

	read := csv.NewReader(bytes.NewBuffer(r.src_encoded))
	read.FieldsPerRecord	= -1
	read.Comma				= r.separator

	lines, err := read.ReadAll()
	if err != nil {
		if r.non_printable != "" {
			r.log_non_printable()
			return Table{}, errs.Csv(fmt.Errorf("Invalid CSV file encoding"))
		}
		r.log_append("Unable to parse CSV: "+err.Error())
		return Table{}, errs.From(err)
	}
	r.parse_lines(lines)

	if err := r.empty_rows_error(); err != nil {
		return Table{}, err
	}

	cols		:= r.cols()
	cols_max	:= slices.Max(cols)

	if err := r.one_col_error(cols_max); err != nil {
		return Table{}, err
	}

	//	Remove empty columns before check_header()
	if r.options[opt_remove_empty_cols] {
		r.remove_empty_cols()

		cols		= r.cols()
		cols_max	= slices.Max(cols)
	}

	if !r.options[opt_ignore_header] {
		if r.options[opt_remove_overflow_cols] {
			if r.check_header(false) == nil {
				if err := r.empty_rows_error(); err != nil {
					return Table{}, err
				}

				if r.options[opt_remove_empty_cols] {
					r.remove_empty_cols()

					cols		= r.cols()
					cols_max	= slices.Max(cols)
				}

				r.remove_overflow_cols()

				cols		= r.cols()
				cols_max	= slices.Max(cols)
			}
		}

		if len(r.out_header) == 0 && cols[0] < cols_max {
			r.log_append("CSV has too few column headers")
			return Table{}, errs.Csv(fmt.Errorf("CSV has too few column headers"))
		}
	}

	if r.options[opt_col_integrity] {
		if cols_max != slices.Min(cols) {
			r.log_append("Columns in CSV not equal")
			return Table{}, errs.Csv(fmt.Errorf("Columns in CSV not equal"))
		}
	} else {
		r.fill_empty_cols(cols_max)
	}

	if !r.checked_header {
		//	Optional column header
		if r.options[opt_optional_header] {
			if r.check_header(false) == nil {
				if err := r.empty_rows_error(); err != nil {
					return Table{}, err
				}

				if r.options[opt_remove_empty_cols] {
					r.remove_empty_cols()

					cols		= r.cols()
					cols_max	= slices.Max(cols)
				}
			}
		//	Require column header
		} else if !r.options[opt_ignore_header] {
			if err := r.check_header(true); err != nil {
				return Table{}, err
			}

			if err := r.empty_rows_error(); err != nil {
				return Table{}, err
			}

			if r.options[opt_remove_empty_cols] {
				r.remove_empty_cols()

				cols		= r.cols()
				cols_max	= slices.Max(cols)
			}
		}
	}

	if err := r.one_col_error(cols_max); err != nil {
		return Table{}, err
	}

	if r.non_printable != "" {
		r.strip_non_printable()
	}

	r.number_records()

	r.log_append(fmt.Sprintf("Rows found: %d", len(r.out)))
	return Table{
		r.out_header,
		r.out,
	}, nil
}

func (r *Reader) parse_lines(lines [][]string){
	for l, line := range lines {
		empty_line := true

		for c, col := range line {
			col = strings.TrimSpace(col)

			if col != "" {
				empty_line = false
			}

			line[c] = col
		}

		//	Remove empty rows
		if !empty_line {
			r.out = append(r.out, Row{
				l,
				line,
			})
		}
	}
}

//	Records are 0-indexed over data rows, the header row excluded
func (r *Reader) number_records(){
	for i := range r.out {
		r.out[i].Record = i
	}
}

func (r *Reader) remove_empty_cols(){
	cols_max	:= slices.Max(r.cols())
	cols		:= make([]bool, cols_max)
	for _, row := range r.out {
		for i, value := range row.Row {
			if value != "" {
				cols[i] = true
			}
		}
	}

	for c := cols_max - 1; c >= 0; c-- {
		if cols[c] {
			continue
		}

		r.log_append(fmt.Sprintf("Remove empty column: %d", c))
		if len(r.out_header) > c {
			r.out_header = append(r.out_header[:c], r.out_header[c+1:]...)
		}
		for i := range r.out {
			if len(r.out[i].Row) > c {
				r.out[i].Row = append(r.out[i].Row[:c], r.out[i].Row[c+1:]...)
			}
		}
	}
}

func (r *Reader) remove_overflow_cols(){
	cols_max := len(r.out_header)
	for i, row := range r.out {
		if len(row.Row) > cols_max {
			r.log_append(fmt.Sprintf("Remove overflow columns row: %d", i))
			r.out[i].Row = r.out[i].Row[:cols_max]
		}
	}
}

func (r *Reader) check_header(error_log bool) error {
	r.checked_header	= true
	has_heading			:= true

	first_row := r.out[0].Row
	for _, value := range first_row {
		if value == "" {
			if error_log {
				r.log_append("Column headers cannot be empty")
			}
			return errs.Csv(fmt.Errorf("Column headers cannot be empty"))
		}

		value = re_col_heading.ReplaceAllString(value, "")
		if _, err := strconv.Atoi(value); err == nil {
			has_heading	= false
		}
	}

	if !has_heading {
		if error_log {
			r.log_append("Column headers in CSV required")
		}
		return errs.Csv(fmt.Errorf("Column headers in CSV required"))
	} else {
		r.log_append("Column headers found")
		r.out_header	= first_row
		r.out			= r.out[1:]
	}
	return nil
}

func (r *Reader) fill_empty_cols(cols_max int){
	for t, row := range r.out {
		l := len(row.Row)
		if l != cols_max {
			r.log_append(fmt.Sprintf("Fill empty columns row: %d", t))
			for i := 0; i < cols_max - l; i++ {
				r.out[t].Row = append(r.out[t].Row, "")
			}
		}
	}
}

func (r *Reader) cols() []int {
	cols := make([]int, len(r.out))
	for i, row := range r.out {
		cols[i] = len(row.Row)
	}
	return cols
}

func (r *Reader) log_non_printable(){
	len_total			:= len(r.src_encoded)
	len_non_printable	:= len(r.non_printable)
	percent				:= float32(len_non_printable) / float32(len_total) * 100
	r.log_append(fmt.Sprintf("Non-printable chars found (%d / %d = %.2f%%): %s", len_non_printable, len_total, percent, r.non_printable))
}

func (r *Reader) log_options(){
	var opts []string
	for k, v := range r.options {
		if v {
			opts = append(opts, k)
		}
	}
	if r.fixed_sep {
		opts = append(opts, "delimiter '"+string(r.separator)+"'")
	}
	if len(opts) != 0 {
		r.log_append("Options: "+strings.Join(opts, ", "))
	}
}

func (r *Reader) log_append(s string){
	r.log = append(r.log, s)
}

func (r *Reader) empty_rows_error() error {
	if len(r.out) == 0 {
		r.log_append("CSV empty")
		return errs.Csv(fmt.Errorf("CSV empty"))
	}
	return nil
}

func (r *Reader) one_col_error(cols_max int) error {
	if cols_max == 1 {
		r.log_append("CSV must have more than one column")
		return errs.Csv(fmt.Errorf("CSV must have more than one column"))
	}
	return nil
}
