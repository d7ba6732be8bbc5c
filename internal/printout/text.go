package printout

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// RenderText renders the document as plain-text tables, one per order.
func RenderText(doc Document) string {
	var sb strings.Builder
	orientation := "Layout Retrato padrão."
	if doc.Landscape() {
		orientation = "Layout Paisagem (Lado a Lado) ativado."
	}
	fmt.Fprintf(&sb, "%d ordem(ns) selecionada(s). %s\n\n", len(doc.Blocks), orientation)

	for _, b := range doc.Blocks {
		tw := table.NewWriter()
		tw.SetStyle(table.StyleLight)
		tw.SetTitle("ORDEM DE SERVIÇO #" + b.Number)
		tw.SetColumnConfigs([]table.ColumnConfig{
			{Number: 1, Align: text.AlignRight},
			{Number: 2, WidthMax: 60},
		})
		tw.AppendRows([]table.Row{
			{"Prioridade", b.Priority},
			{"Data Abertura", b.OpeningDate},
			{"Status", b.Status},
			{"Localização", b.Location()},
			{"Solicitante", b.RequesterName},
			{"Ramal/Contato", b.RequesterRamal},
			{"Descrição", b.Description},
		})
		if b.AIDiagnosis != "" {
			tw.AppendRow(table.Row{"Diagnóstico Preliminar", b.AIDiagnosis})
		}
		tw.AppendSeparator()
		tw.AppendRows([]table.Row{
			{"Equipe", b.Team},
			{"Técnico", b.Professional},
		})
		sb.WriteString(tw.Render())
		sb.WriteString("\n\n")
	}
	sb.WriteString(doc.Footer)
	sb.WriteString("\n")
	return sb.String()
}
