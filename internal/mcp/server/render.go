package server

import (
	"bytes"

	"github.com/olekukonko/tablewriter"
)

// writeMarkdownTable renders a pipe table the way markdown viewers expect.
func writeMarkdownTable(buf *bytes.Buffer, header []string, rows [][]string) {
	table := tablewriter.NewWriter(buf)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
	table.SetCenterSeparator("|")
	table.AppendBulk(rows)
	table.Render()
}
