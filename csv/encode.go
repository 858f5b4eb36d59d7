package csv

import (
	"os"
	"fmt"
	"bytes"
	"strings"
	"unicode/utf8"
	"path/filepath"
	"github.com/go-errors/errors"
	"golang.org/x/sys/unix"
	"github.com/clarkk/go-fmt/sanitize"
	"github.com/clarkk/go-util/cmd"
	"github.com/clarkk/go-util/futil"
	"github.com/clarkk/go-csvpivot/errs"
	"github.com/clarkk/go-csvpivot/timef"
)

const (
	BOM_UTF8	= "\xEF\xBB\xBF"
	BOM_UTF16LE	= "\xFF\xFE"
	BOM_UTF16BE	= "\xFE\xFF"
)

//	Write source to file
func (r *Reader) Write_src(file string) error {
	dir := filepath.Dir(file)
	if _, err := os.Stat(dir); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return errs.From(fmt.Errorf("Unable to read directory stat: %w", err))
		}
		if err := os.MkdirAll(dir, futil.CHMOD_RWX_OWNER); err != nil {
			return errs.From(fmt.Errorf("Unable to create directory: %w", err))
		}
	}
	if err := unix.Access(dir, unix.W_OK); err != nil {
		return errs.From(fmt.Errorf("Directory not writeable: %w", err))
	}
	if err := os.WriteFile(file, r.src, futil.CHMOD_RW_OWNER); err != nil {
		return errs.From(fmt.Errorf("Unable to write file: %w", err))
	}

	log := strings.Join(r.Log(), "\r\n")
	if err := os.WriteFile(file+".log", []byte(log), 0664); err != nil {
		return errs.From(fmt.Errorf("Unable to write file: %w", err))
	}

	return nil
}

//	Persist source and log to the temp directory under a timestamped name
func (r *Reader) Write_tmp() (string, error){
	if r.tmp_dir == "" {
		return "", errs.Invalid_config("temp directory not defined")
	}
	file := filepath.Join(r.tmp_dir, "csvpivot_"+timef.File())
	if err := r.Write_src(file); err != nil {
		return "", err
	}
	return file, nil
}

func (r *Reader) encoding() error {
	var src []byte
	if len(r.src_converted) != 0 {
		src = r.src_converted
	} else {
		src = r.src
	}

	//	Detect and strip UTF8 BOM
	if bytes.HasPrefix(src, []byte(BOM_UTF8)) {
		s := string(src[len(BOM_UTF8):])
		s = sanitize.Filter_utf8mb3(s)
		s = sanitize.Trim(s, true)
		r.log_append("UTF8 BOM found")
		return r.src_encoding(s)
	}

	s := string(src)

	//	Valid UTF8
	if utf8.Valid(src) {
		s = sanitize.Filter_utf8mb3(s)
		s = sanitize.Trim(s, true)
		r.log_append("UTF8 validated")
		return r.src_encoding(s)
	}

	//	Encode UTF8
	out := make([]byte, len(s) * utf8.UTFMax)
	n := 0
	for _, b := range []byte(s) {
		n += utf8.EncodeRune(out[n:], rune(b))
	}
	s = string(out[:n])
	s = sanitize.Filter_utf8mb3(s)
	s = sanitize.Trim(s, true)
	r.log_append("UTF8 encoded")
	return r.src_encoding(s)
}

func (r *Reader) convert_xls() error {
	if r.tmp_dir == "" {
		return errs.Invalid_config("temp directory not defined")
	}

	if err := unix.Access(r.tmp_dir, unix.W_OK); err != nil {
		return errs.From(fmt.Errorf("Temp directory not writeable: %w", err))
	}

	f, err := os.CreateTemp(r.tmp_dir, "xls")
	if err != nil {
		return errs.From(fmt.Errorf("Unable to create temp xls file: %w", err))
	}
	file_name := f.Name()
	defer os.Remove(file_name)

	_, err = f.Write(r.src)
	if err != nil {
		f.Close()
		return errs.From(fmt.Errorf("Unable to write temp xls file: %w", err))
	}
	if err := f.Close(); err != nil {
		return errs.From(fmt.Errorf("Unable to write temp xls file: %w", err))
	}

	file_name_csv := file_name+".csv"
	c := cmd.Command{}
	if err := c.Run("ssconvert "+file_name+" "+file_name_csv); err != nil {
		r.log_append("Unable to convert XLS to CSV")
		return errs.IO(errors.WrapPrefix(err, "Unable to convert XLS to CSV", 0))
	}
	defer os.Remove(file_name_csv)

	if err := r.src_convert_file(file_name_csv); err != nil {
		return err
	}

	r.log_append("XLS converted to CSV")
	return nil
}

func (r *Reader) strip_non_printable(){
	c := 0
	for i, value := range r.out_header {
		s := sanitize.Strip_non_printable(value)
		if s != value {
			r.out_header[i] = s
			c++
		}
	}
	for i := range r.out {
		for j, value := range r.out[i].Row {
			s := sanitize.Strip_non_printable(value)
			if s != value {
				r.out[i].Row[j] = s
				c++
			}
		}
	}
	r.log_append(fmt.Sprintf("Values replaced (non-printable): %d", c))
}

func (r *Reader) src_convert_file(file string) error {
	var err error
	r.src_converted, err = os.ReadFile(file)
	if err != nil {
		return errs.From(fmt.Errorf("Unable to read temp csv file: %w", err))
	}
	return nil
}

func (r *Reader) src_encoding(s string) error {
	r.src_encoded	= []byte(s)
	r.non_printable = sanitize.Non_printable(s)

	if s == "" {
		return fmt.Errorf("CSV empty")
	}

	if r.fixed_sep {
		r.log_append("Separator (fixed): "+string(r.separator))
		return nil
	}

	return r.get_separator(s)
}
