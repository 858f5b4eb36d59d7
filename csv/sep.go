package csv

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

var separators = []rune{
	',',
	';',
	'\t',
}

type sep_count struct {
	count		map[rune]int
	count_lines	map[rune][]int
}

func new_sep_count() *sep_count {
	c := &sep_count{
		count:			map[rune]int{},
		count_lines:	map[rune][]int{},
	}
	for _, sep := range separators {
		c.count_lines[sep] = []int{}
	}
	return c
}

func (c *sep_count) add(sep rune, count int){
	c.count[sep] = count
}

func (c *sep_count) add_line(sep rune, count int){
	c.count_lines[sep] = append(c.count_lines[sep], count)
}

func (c *sep_count) sep() (rune, error){
	length := len(c.count)
	if length == 0 {
		return 0, fmt.Errorf("Unable to find separator candidates")
	}

	keys := make([]rune, length)
	i := 0
	for sep := range c.count {
		keys[i] = sep
		i++
	}
	slices.SortFunc(keys, func(a, b rune) int {
		return cmp.Compare(c.count[b], c.count[a])
	})
	return keys[0], nil
}

//	A separator with the same count on every line wins over raw totals
func (c *sep_count) sep_lines() (rune, error){
	for sep, count := range c.count_lines {
		//	No lines counted, eg. a whitespace-only document
		if len(count) == 0 {
			continue
		}
		max := slices.Max(count)
		if max == 0 {
			continue
		}
		if max == slices.Min(count) {
			c.add(sep, max)
		}
	}
	return c.sep()
}

func (r *Reader) get_separator(s string) error {
	if r.get_separator_lines(s) {
		return nil
	}

	c := new_sep_count()
	for _, sep := range separators {
		c.add(sep, strings.Count(s, string(sep)))
	}

	sep, err := c.sep()
	if err != nil {
		return err
	}

	r.separator = sep
	r.log_append("Separator: "+string(r.separator))
	return nil
}

func (r *Reader) get_separator_lines(s string) bool {
	c := new_sep_count()
	for _, line := range strings.Split(s, "\n") {
		if line == "" {
			continue
		}
		for _, sep := range separators {
			c.add_line(sep, strings.Count(line, string(sep)))
		}
	}

	sep, err := c.sep_lines()
	if err != nil {
		return false
	}

	r.separator = sep
	r.log_append("Separator (lines): "+string(r.separator))
	return true
}
