package trace

import (
	"strings"

	"github.com/tidwall/gjson"
)

// Doc is a JSON array of trace records.
type Doc string

// Join assembles records into a Doc, skipping invalid lines.
func Join(lines []string) Doc {
	var valid []string
	for _, l := range lines {
		if gjson.Valid(l) {
			valid = append(valid, l)
		}
	}
	return Doc("[" + strings.Join(valid, ",") + "]")
}

// Doc returns the recorder's records as a Doc.
func (r *Recorder) Doc() Doc { return Doc(r.JSON()) }

// Get runs a gjson path against the document.
func (d Doc) Get(path string) gjson.Result {
	return gjson.Get(string(d), path)
}

// Len returns the number of records.
func (d Doc) Len() int {
	return int(d.Get("#").Int())
}

// Types returns the event type of every record in order.
func (d Doc) Types() []string {
	return d.column("#.type")
}

// Targets returns "type@target" for every record in order.
func (d Doc) Targets() []string {
	var out []string
	gjson.Parse(string(d)).ForEach(func(_, rec gjson.Result) bool {
		out = append(out, rec.Get("type").String()+"@"+rec.Get("target").String())
		return true
	})
	return out
}

// ByType returns the records of one event type.
func (d Doc) ByType(typ string) []gjson.Result {
	return d.Get(`#(type==` + quote(typ) + `)#`).Array()
}

// ByTarget returns the records delivered to a target.
func (d Doc) ByTarget(target string) []gjson.Result {
	return d.Get(`#(target==` + quote(target) + `)#`).Array()
}

// Seq returns the record with the given sequence number.
func (d Doc) Seq(seq uint64) (gjson.Result, bool) {
	var found gjson.Result
	ok := false
	gjson.Parse(string(d)).ForEach(func(_, rec gjson.Result) bool {
		if rec.Get("seq").Uint() == seq {
			found, ok = rec, true
			return false
		}
		return true
	})
	return found, ok
}

// MaxDrainDepth returns the deepest nesting seen.
func (d Doc) MaxDrainDepth() int {
	max := 0
	for _, v := range d.Get("#.drain_depth").Array() {
		if n := int(v.Int()); n > max {
			max = n
		}
	}
	return max
}

// Prevented returns the types of records whose default was prevented.
func (d Doc) Prevented() []string {
	var out []string
	gjson.Parse(string(d)).ForEach(func(_, rec gjson.Result) bool {
		if rec.Get("default_prevented").Bool() {
			out = append(out, rec.Get("type").String())
		}
		return true
	})
	return out
}

func (d Doc) column(path string) []string {
	res := d.Get(path).Array()
	out := make([]string, 0, len(res))
	for _, v := range res {
		out = append(out, v.String())
	}
	return out
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}
