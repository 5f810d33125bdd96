package render

import (
	"fmt"
	"io"
	"strings"
)

// Style decorates parts of the text view, typically with terminal colors.
// Nil fields leave the text unchanged.
type Style struct {
	Heading func(a ...any) string
	Error   func(a ...any) string
	Dim     func(a ...any) string
}

func (s Style) apply(fn func(a ...any) string, text string) string {
	if fn == nil {
		return text
	}
	return fn(text)
}

// WriteText renders v for a terminal without decoration.
func WriteText(w io.Writer, v View) error {
	return Style{}.WriteText(w, v)
}

// WriteText renders v for a terminal. Subtopics are numbered from 1 so
// they can be opened by number.
func (st Style) WriteText(w io.Writer, v View) error {
	var b strings.Builder
	switch {
	case v.Loading:
		b.WriteString(st.apply(st.Dim, "loading...") + "\n")
	case !v.ShowControls:
		b.WriteString(st.apply(st.Dim, "no topic yet: try `topic <query>`") + "\n")
	}
	if v.Error != "" {
		b.WriteString(st.apply(st.Error, "error: "+v.Error) + "\n")
	}
	if v.ShowContent {
		fmt.Fprintf(&b, "%s  (%d steps away", st.apply(st.Heading, "== "+v.Heading+" =="), v.StepsAway)
		if v.CanBack {
			b.WriteString(", back")
		}
		if v.CanForward {
			b.WriteString(", fwd")
		}
		fmt.Fprintf(&b, ")  order=%s limit=%d\n", v.Preference, v.Limit)
		if len(v.Subtopics) == 0 {
			b.WriteString(st.apply(st.Dim, "  (no subtopics)") + "\n")
		}
		for i, s := range v.Subtopics {
			fmt.Fprintf(&b, "%4d. %s\n", i+1, s.Text)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteGraph renders the edges of a graph update as "parent -> child"
// lines, and the lone nodes by name.
func WriteGraph(w io.Writer, u GraphUpdate) error {
	var b strings.Builder
	linked := make(map[string]bool)
	for _, e := range u.Elements.Edges {
		fmt.Fprintf(&b, "%s -> %s\n", e.Data.Source, e.Data.Target)
		linked[e.Data.Source] = true
		linked[e.Data.Target] = true
	}
	for _, n := range u.Elements.Nodes {
		if !linked[n.Data.ID] {
			fmt.Fprintf(&b, "%s\n", n.Data.Label)
		}
	}
	if b.Len() == 0 {
		b.WriteString("(empty graph)\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}
