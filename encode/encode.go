package encode

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/weavedoc/weave/ir"
)

// Encode writes y to w in the configured format, YAML by default.
func Encode(y *ir.Node, w io.Writer, opts ...EncodeOption) error {
	es := &EncState{indent: 2}
	for _, opt := range opts {
		opt(es)
	}
	if es.format.IsJSON() {
		return encodeJSON(y, w, es)
	}
	if err := es.yaml(y, w, 0, false); err != nil {
		return err
	}
	return nil
}

func encodeJSON(y *ir.Node, w io.Writer, es *EncState) error {
	v, err := ir.ToAny(y)
	if err != nil {
		return fmt.Errorf("cannot encode as json: %w", err)
	}
	d, err := json.MarshalIndent(v, "", strings.Repeat(" ", es.indent))
	if err != nil {
		return err
	}
	d = append(d, '\n')
	_, err = w.Write(d)
	return err
}

// yaml emits node at the given depth. inline is true when the node
// begins on the current line (after "key:" or "- ").
func (es *EncState) yaml(y *ir.Node, w io.Writer, depth int, inline bool) error {
	switch y.Type {
	case ir.NullType, ir.BoolType, ir.NumberType, ir.StringType:
		sep := ""
		if inline {
			sep = " "
		}
		if _, err := fmt.Fprintf(w, "%s%s\n", sep, es.scalar(y)); err != nil {
			return err
		}
		return nil
	case ir.ObjectType:
		return es.yamlObject(y, w, depth, inline)
	case ir.ArrayType:
		return es.yamlArray(y.Values, w, depth, inline, "")
	case ir.MarkerType:
		return es.yamlMarker(y.Marker, w, depth, inline)
	default:
		panic("type")
	}
}

func (es *EncState) yamlObject(y *ir.Node, w io.Writer, depth int, inline bool) error {
	if len(y.Fields) == 0 {
		sep := ""
		if inline {
			sep = " "
		}
		_, err := fmt.Fprintf(w, "%s{}\n", sep)
		return err
	}
	if inline {
		if _, err := fmt.Fprint(w, "\n"); err != nil {
			return err
		}
		depth++
	}
	idx := make([]int, len(y.Fields))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool {
		return y.Fields[idx[a]].String < y.Fields[idx[b]].String
	})
	pad := strings.Repeat(" ", depth*es.indent)
	for _, i := range idx {
		key := es.quoteIfNeeded(y.Fields[i].String)
		if _, err := fmt.Fprintf(w, "%s%s:", pad, es.field(key)); err != nil {
			return err
		}
		if err := es.yaml(y.Values[i], w, depth, true); err != nil {
			return err
		}
	}
	return nil
}

func (es *EncState) yamlArray(vals []*ir.Node, w io.Writer, depth int, inline bool, tag string) error {
	if len(vals) == 0 && tag == "" {
		sep := ""
		if inline {
			sep = " "
		}
		_, err := fmt.Fprintf(w, "%s[]\n", sep)
		return err
	}
	if inline {
		head := "\n"
		if tag != "" {
			head = " " + es.tag(tag) + "\n"
		}
		if _, err := fmt.Fprint(w, head); err != nil {
			return err
		}
		depth++
	} else if tag != "" {
		if _, err := fmt.Fprintf(w, "%s\n", es.tag(tag)); err != nil {
			return err
		}
	}
	pad := strings.Repeat(" ", depth*es.indent)
	for _, v := range vals {
		if _, err := fmt.Fprintf(w, "%s-", pad); err != nil {
			return err
		}
		if err := es.yaml(v, w, depth, true); err != nil {
			return err
		}
	}
	return nil
}

func (es *EncState) yamlMarker(m ir.Marker, w io.Writer, depth int, inline bool) error {
	switch x := m.(type) {
	case *ir.Ref:
		return es.yamlRefLike(m.Tag(), "path", x.Path, w, inline)
	case *ir.Glob:
		return es.yamlRefLike(m.Tag(), "glob", x.Pattern, w, inline)
	case *ir.Flatten:
		return es.yamlArray(x.Items, w, depth, inline, m.Tag())
	case *ir.Merge:
		return es.yamlArray(x.Items, w, depth, inline, m.Tag())
	default:
		panic("marker")
	}
}

func (es *EncState) yamlRefLike(tag, prop, v string, w io.Writer, inline bool) error {
	sep := ""
	if inline {
		sep = " "
	}
	_, err := fmt.Fprintf(w, "%s%s {%s: %s}\n",
		sep, es.tag(tag), es.field(prop), es.quoteIfNeeded(v))
	return err
}

func (es *EncState) scalar(y *ir.Node) string {
	switch y.Type {
	case ir.NullType:
		return es.colorize(func(c *Colors) sprintf { return c.Null }, "null")
	case ir.BoolType:
		return es.colorize(func(c *Colors) sprintf { return c.Bool }, strconv.FormatBool(y.Bool))
	case ir.NumberType:
		var s string
		switch {
		case y.Int64 != nil:
			s = strconv.FormatInt(*y.Int64, 10)
		case y.Float64 != nil:
			s = strconv.FormatFloat(*y.Float64, 'g', -1, 64)
		}
		return es.colorize(func(c *Colors) sprintf { return c.Number }, s)
	case ir.StringType:
		return es.colorize(func(c *Colors) sprintf { return c.String }, es.quoteIfNeeded(y.String))
	default:
		panic("scalar")
	}
}

// quoteIfNeeded emits s bare only when a YAML reader would hand it
// back unchanged: anything that round-trips differently (numbers,
// booleans, empty strings, strings with structure characters) is
// double-quoted.
func (es *EncState) quoteIfNeeded(s string) string {
	if s == "" || strings.ContainsAny(s, "\n\t") {
		return strconv.Quote(s)
	}
	var v any
	if err := yaml.Unmarshal([]byte(s), &v); err != nil {
		return strconv.Quote(s)
	}
	sv, ok := v.(string)
	if !ok || sv != s {
		return strconv.Quote(s)
	}
	return s
}

type sprintf func(string, ...any) string

func (es *EncState) colorize(pick func(*Colors) sprintf, s string) string {
	if es.colors == nil {
		return s
	}
	f := pick(es.colors)
	if f == nil {
		return s
	}
	return f("%s", s)
}

func (es *EncState) field(s string) string {
	return es.colorize(func(c *Colors) sprintf { return c.Field }, s)
}

func (es *EncState) tag(s string) string {
	return es.colorize(func(c *Colors) sprintf { return c.Tag }, s)
}
