package bnf

import (
	"html/template"
	"io"
	"strings"
)

var pageTemplate = template.Must(template.New("grammar").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table.grammar { border-collapse: collapse; }
table.grammar td { padding: 0.2em 0.6em; vertical-align: top; }
td.label { color: #888; }
td.name { font-weight: bold; }
code.terminal { background: #eef; padding: 0 0.2em; }
p.prose { max-width: 60em; }
a { text-decoration: none; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{range .Blocks}}{{if .Prose}}<p class="prose">{{.Prose}}</p>
{{else}}<table class="grammar"><tr id="prod-{{.Name}}">
<td class="label">[{{.Label}}]</td>
<td class="name">{{.Name}}</td>
<td>::=</td>
<td>{{.Expression}}</td>
</tr></table>
{{end}}{{end}}</body>
</html>
`))

type pageBlock struct {
	Prose      string
	Label      string
	Name       string
	Expression template.HTML
}

type pageData struct {
	Title  string
	Blocks []pageBlock
}

// RenderHTML writes a standalone HTML document for the grammar. Every
// production gets an anchor, references to known production names are
// cross-linked, and quoted terminals are styled as code.
func RenderHTML(w io.Writer, g *Grammar, title string) error {
	names := g.Names()

	data := pageData{Title: title}
	for _, item := range g.Items {
		if item.Production == nil {
			data.Blocks = append(data.Blocks, pageBlock{Prose: item.Prose})
			continue
		}
		data.Blocks = append(data.Blocks, pageBlock{
			Label:      item.Production.Label,
			Name:       item.Production.Name,
			Expression: renderExpression(item.Production.Expression, names),
		})
	}
	return pageTemplate.Execute(w, data)
}

// renderExpression escapes an expression and decorates it: quoted
// terminals become <code>, known production names become anchors.
func renderExpression(expr string, names map[string]bool) template.HTML {
	var builder strings.Builder
	i := 0

	for i < len(expr) {
		ch := expr[i]

		if ch == '\'' || ch == '"' {
			end := strings.IndexByte(expr[i+1:], ch)
			if end < 0 {
				builder.WriteString(template.HTMLEscapeString(expr[i:]))
				break
			}
			terminal := expr[i : i+end+2]
			builder.WriteString(`<code class="terminal">`)
			builder.WriteString(template.HTMLEscapeString(terminal))
			builder.WriteString(`</code>`)
			i += end + 2
			continue
		}

		if isWordByte(ch) {
			start := i
			for i < len(expr) && isWordByte(expr[i]) {
				i++
			}
			word := expr[start:i]
			if names[word] {
				builder.WriteString(`<a href="#prod-` + word + `">`)
				builder.WriteString(template.HTMLEscapeString(word))
				builder.WriteString(`</a>`)
			} else {
				builder.WriteString(template.HTMLEscapeString(word))
			}
			continue
		}

		builder.WriteString(template.HTMLEscapeString(string(ch)))
		i++
	}

	return template.HTML(builder.String())
}

func isWordByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9') || b == '_'
}
