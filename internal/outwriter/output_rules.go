package outwriter

import (
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/repoaudit/core/scan"
	"github.com/huangsam/repoaudit/internal/contract"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintRules writes the active secret rules as a table.
func PrintRules(writer io.Writer, rules scan.RuleSet, cfg *contract.Config) error {
	maxWidth := GetMaxTablePathWidth(cfg)

	table := tablewriter.NewWriter(writer)
	table.Header([]string{"#", "Label", "Pattern"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.PerColumn = []tw.Align{tw.AlignRight, tw.AlignLeft, tw.AlignLeft}
	})

	data := make([][]string, 0, len(rules))
	for i, rule := range rules {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			rule.Label,
			contract.TruncateRunes(rule.Pattern.String(), maxWidth),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(writer, "%d rules active\n", len(rules))
	return err
}
