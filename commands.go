package main

import (
	"strings"

	"github.com/matst80/slask-discovery/pkg/discovery"
	"github.com/matst80/slask-discovery/pkg/facet"
	"github.com/matst80/slask-discovery/pkg/types"
)

const help = `commands:
  <text>                      search for text
  /refine <type> <query> [name] toggle a refinement
  /clear <type>               remove one filter
  /clearall                   remove all filters
  /more                       load the next page
  /view <videos|courses|all>  switch the listing view
  /filters                    list active filters
  /quit                       exit
`

// runCommand handles one input line, it returns false when the session should end.
func runCommand(c *discovery.Coordinator, console *consoleViews, line string) bool {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "/") {
		c.Search(line)
		return true
	}
	fields := strings.Fields(line)
	switch fields[0] {
	case "/quit", "/exit":
		return false
	case "/more":
		c.LoadMore()
	case "/clearall":
		c.ClearAll()
	case "/clear":
		if len(fields) < 2 {
			console.printf("usage: /clear <type>\n")
			return true
		}
		c.ClearFilter(fields[1])
	case "/refine":
		if len(fields) < 3 {
			console.printf("usage: /refine <type> <query> [name]\n")
			return true
		}
		name := fields[2]
		if len(fields) > 3 {
			name = strings.Join(fields[3:], " ")
		}
		c.SelectRefinement(types.FilterTerm{Type: fields[1], Query: fields[2], Name: name})
	case "/view":
		if len(fields) < 2 {
			console.printf("usage: /view <videos|courses|all>\n")
			return true
		}
		c.SetView(facet.ForView(fields[1]))
	case "/filters":
		consoleFilterBar{console}.Render(c.Filters())
	default:
		console.printf("%s", help)
	}
	return true
}
