package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/pterm/pterm"

	"github.com/arthur-debert/aptdedup/pkg/commands/apply"
	"github.com/arthur-debert/aptdedup/pkg/commands/backups"
	"github.com/arthur-debert/aptdedup/pkg/commands/scan"
	"github.com/arthur-debert/aptdedup/pkg/ui"
	"github.com/arthur-debert/aptdedup/pkg/ui/styles"
)

// resolveFormat maps the --format flag value to a concrete format for
// stdout. Unknown values fall back to auto-detection.
func resolveFormat(format string) ui.Format {
	f, err := ui.ParseFormat(format)
	if err != nil {
		f = ui.FormatAuto
	}
	return f.Resolve(os.Stdout)
}

func renderScanResult(w io.Writer, result *scan.Result, format string) {
	if len(result.Duplicates) == 0 {
		fmt.Fprintln(w, MsgNoDuplicates)
		return
	}

	if resolveFormat(format) == ui.FormatTerminal {
		header := fmt.Sprintf("%d duplicate group(s) across %d file(s)",
			len(result.Duplicates), len(result.Files))
		fmt.Fprintln(w, styles.GetStyle("Header").Render(header))
	}
	fmt.Fprint(w, result.Report)
}

func renderApplyResult(w io.Writer, result *apply.Result, format string) {
	renderScanResult(w, result.Scan, format)

	if result.DryRun {
		fmt.Fprintln(w, MsgDryRunNotice)
		return
	}

	if result.Backup != nil {
		fmt.Fprintf(w, "\nsnapshot %s\n", result.Backup.ID)
	}
	for _, file := range result.Rewritten {
		fmt.Fprintf(w, "rewrote %s\n", file)
	}
}

func renderBackupList(w io.Writer, result *backups.Result, format string) {
	if len(result.Backups) == 0 {
		fmt.Fprintln(w, MsgNoBackups)
		return
	}

	if resolveFormat(format) == ui.FormatTerminal {
		rows := pterm.TableData{{"ID", "CREATED", "FILES", "SIZE"}}
		for _, info := range result.Backups {
			rows = append(rows, []string{
				info.ID,
				info.CreatedAt.Format("2006-01-02 15:04:05"),
				strconv.Itoa(len(info.Files)),
				strconv.FormatInt(info.Size, 10),
			})
		}
		rendered, err := pterm.DefaultTable.WithHasHeader().WithData(rows).Srender()
		if err == nil {
			fmt.Fprintln(w, rendered)
			return
		}
	}

	for _, info := range result.Backups {
		fmt.Fprintf(w, "%s  %s  %d file(s)  %d bytes\n",
			info.ID, info.CreatedAt.Format("2006-01-02 15:04:05"), len(info.Files), info.Size)
	}
}
