package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/m-mizutani/philosophia/pkg/model"
)

func printGrid(w io.Writer, profiles []*model.Profile, selected model.ProfileID) {
	for _, p := range profiles {
		mark := " "
		if p.ID == selected {
			mark = "*"
		}
		fmt.Fprintf(w, "%s %s\t%s\t%s\t%s\n", mark, p.ID, p.Name, p.DateRange, p.School)
	}
}

func printProfile(w io.Writer, p *model.Profile) {
	fmt.Fprintf(w, "%s (%s)\n", p.Name, p.DateRange)
	fmt.Fprintf(w, "School: %s\n", p.School)
	fmt.Fprintf(w, "Image:  %s\n\n", p.ImageURL)
	fmt.Fprintf(w, "%s\n", p.Summary())

	fmt.Fprintf(w, "\nKey ideas:\n")
	for _, idea := range p.KeyIdeas {
		fmt.Fprintf(w, "  - %s\n", idea)
	}

	fmt.Fprintf(w, "\nQuotes:\n")
	for _, q := range p.Quotes {
		fmt.Fprintf(w, "  \"%s\"\n", q)
	}

	fmt.Fprintf(w, "\nComments (%d):\n", len(p.Comments))
	for _, c := range p.Comments {
		fmt.Fprintf(w, "  [%s] %s: %s\n", c.CreatedAt.Format("2006-01-02 15:04"), c.Author, c.Text)
	}
}

// turnPrinter writes only the part of an accumulated reply that has not been printed yet
type turnPrinter struct {
	w       io.Writer
	prefix  string
	started bool
	printed string
}

func (p *turnPrinter) print(content string) {
	if !p.started {
		fmt.Fprint(p.w, p.prefix)
		p.started = true
	}
	if !strings.HasPrefix(content, p.printed) {
		// reply was replaced, e.g. by the fallback message
		fmt.Fprintf(p.w, "\n%s", content)
		p.printed = content
		return
	}
	fmt.Fprint(p.w, content[len(p.printed):])
	p.printed = content
}

// reset prepares for a new reply shown after prefix
func (p *turnPrinter) reset(prefix string) {
	p.prefix = prefix
	p.started = false
	p.printed = ""
}
