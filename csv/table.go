package csv

import (
	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

type (
	Header	[]string
	Rows	[]Row

	Table struct {
		Header	Header	`json:"header"`
		Rows	Rows	`json:"rows"`
	}

	Row struct {
		Record	int			`json:"record"`
		Row		[]string	`json:"row"`
	}
)

//	Column count of the parsed table
func (t Table) Cols() int {
	if len(t.Header) != 0 {
		return len(t.Header)
	}
	if len(t.Rows) == 0 {
		return 0
	}
	return len(t.Rows[0].Row)
}

//	Indented JSON of the parsed table
func (t Table) Dump() (string, error){
	b, err := json.Marshal(t)
	if err != nil {
		return "", err
	}
	(*jsontext.Value)(&b).Indent()
	return string(b), nil
}
