package printout

import (
	"bytes"
	"fmt"
	"html"
	"strings"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	markdownOnce sync.Once
	markdown     goldmark.Markdown
)

func getMarkdown() goldmark.Markdown {
	markdownOnce.Do(func() {
		markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))
	})
	return markdown
}

const pageStyle = `@media print {
  @page { size: %s; margin: 0.5cm; }
  body { background: white; }
}
.grid { display: grid; grid-template-columns: repeat(%d, 1fr); gap: 2rem; }
.order { border: 2px solid #1e293b; padding: 1.5rem; break-inside: avoid; }
.signatures { display: grid; grid-template-columns: 1fr 1fr; gap: 2rem; margin-top: 2rem; text-align: center; }
.footer { margin-top: 2rem; text-align: center; font-size: 10px; color: #94a3b8; }
@media print { .footer { display: none; } }`

// RenderHTML renders the document as a standalone printable page.
func RenderHTML(doc Document) (string, error) {
	orientation := "portrait"
	if doc.Landscape() {
		orientation = "landscape"
	}

	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html>\n<html lang=\"pt-BR\">\n<head>\n<meta charset=\"utf-8\">\n")
	buf.WriteString("<title>Ordens de Serviço</title>\n<style>\n")
	fmt.Fprintf(&buf, pageStyle, orientation, doc.Columns)
	buf.WriteString("\n</style>\n</head>\n<body>\n<div class=\"grid\">\n")

	for _, b := range doc.Blocks {
		buf.WriteString("<section class=\"order\">\n")
		if err := getMarkdown().Convert([]byte(blockMarkdown(b)), &buf); err != nil {
			return "", fmt.Errorf("render order %s: %w", b.OrderID, err)
		}
		buf.WriteString("<div class=\"signatures\"><div>Assinatura Solicitante<br><small>Data: ___/___/___</small></div>")
		buf.WriteString("<div>Assinatura Técnico<br><small>Data: ___/___/___</small></div></div>\n")
		buf.WriteString("</section>\n")
	}

	fmt.Fprintf(&buf, "</div>\n<div class=\"footer\">%s</div>\n</body>\n</html>\n", html.EscapeString(doc.Footer))
	return buf.String(), nil
}

// blockMarkdown lays out one order as GFM. User text is escaped so it
// cannot inject markup.
func blockMarkdown(b Block) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Ordem de Serviço #%s\n\n", escape(b.Number))
	sb.WriteString("ManutTech Facilities\n\n")
	sb.WriteString("| Campo | Valor |\n| --- | --- |\n")
	row := func(label, value string) {
		fmt.Fprintf(&sb, "| %s | %s |\n", label, escapeCell(value))
	}
	row("Prioridade", b.Priority)
	row("Data Abertura", b.OpeningDate)
	row("Status", b.Status)
	row("Localização", b.Location())
	row("Solicitante", b.RequesterName)
	row("Ramal/Contato", b.RequesterRamal)
	row("Equipe", b.Team)
	row("Técnico", b.Professional)
	sb.WriteString("\n## Descrição do Problema\n\n")
	sb.WriteString(escape(b.Description))
	sb.WriteString("\n\n")
	if b.AIDiagnosis != "" {
		sb.WriteString("## Diagnóstico Preliminar\n\n*")
		sb.WriteString(escape(strings.TrimSpace(b.AIDiagnosis)))
		sb.WriteString("*\n\n")
	}
	sb.WriteString("## Parecer Técnico / Solução\n\n")
	sb.WriteString("&nbsp;\n\n&nbsp;\n\n&nbsp;\n")
	return sb.String()
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, "`", "\\`", "*", `\*`, "_", `\_`, "#", `\#`,
	"[", `\[`, "]", `\]`, "<", "&lt;", ">", "&gt;", "|", `\|`,
)

func escape(s string) string {
	return markdownEscaper.Replace(s)
}

func escapeCell(s string) string {
	return strings.ReplaceAll(escape(s), "\n", " ")
}
