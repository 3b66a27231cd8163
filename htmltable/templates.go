package htmltable

import "html/template"

var (
	HeaderTemplate = template.Must(template.New("header").Parse(
		"<table{{if .TableClass}} class='{{.TableClass}}'{{end}}>\n" +
			"{{if .Caption}}  <caption>{{.Caption}}</caption>\n{{end}}",
	))

	RowTemplate = template.Must(template.New("row").Parse("" +
		"{{if .IsHeaderRow}}" +
		"  <tr>{{range $cell := .Cells}}<th{{if $cell.Sort}} aria-sort='{{$cell.Sort}}'{{end}}>{{$cell.HTML}}</th>{{end}}</tr>\n" +
		"{{else}}" +
		"  <tr{{if .Selected}} class='selected'{{end}}>" +
		"{{range $cell := .Cells}}<td{{if $cell.Class}} class='{{$cell.Class}}'{{end}}{{if $cell.Title}} title='{{$cell.Title}}'{{end}}>{{$cell.HTML}}</td>{{end}}" +
		"</tr>\n" +
		"{{end}}",
	))

	FooterTemplate = template.Must(template.New("footer").Parse(
		"</table>",
	))
)

type TemplateContext struct {
	TableClass string
	Caption    string
}

type RowTemplateContext struct {
	TemplateContext

	IsHeaderRow bool
	RowIndex    int
	Selected    bool
	Cells       []CellTemplateContext
}

type CellTemplateContext struct {
	HTML template.HTML
	// Class is "selected", "invalid" or empty.
	Class string
	// Title holds the joined validation errors of the cell.
	Title string
	// Sort is the aria-sort value of a header cell.
	Sort string
}
