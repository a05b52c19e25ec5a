package store

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"langscan/internal/collector"
)

// ExportTSV writes every pair of res to a TSV file.
func ExportTSV(res *collector.Result, outputPath string) (err error) {
	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create TSV file: %w", err)
	}
	defer closeFile(f, &err)

	w := bufio.NewWriter(f)
	if _, err := fmt.Fprintln(w, "category\tmessage"); err != nil {
		return fmt.Errorf("write TSV header: %w", err)
	}
	for _, item := range res.Items {
		if _, err := fmt.Fprintf(w, "%s\t%s\n", escapeTSV(item.Category), escapeTSV(item.Message)); err != nil {
			return fmt.Errorf("write TSV row: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush TSV file: %w", err)
	}

	log.Info().Str("path", outputPath).Int("items", len(res.Items)).Msg("Exported language elements to TSV")
	return nil
}

// ExportJSON writes res to a JSON file.
func ExportJSON(res *collector.Result, outputPath string) (err error) {
	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create JSON file: %w", err)
	}
	defer closeFile(f, &err)

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)

	if err := encoder.Encode(res); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}

	log.Info().Str("path", outputPath).Int("items", len(res.Items)).Msg("Exported language elements to JSON")
	return nil
}

// closeFile closes f and reports its error through err unless err is
// already set.
func closeFile(f *os.File, err *error) {
	if cerr := f.Close(); cerr != nil && *err == nil {
		*err = fmt.Errorf("close %s: %w", f.Name(), cerr)
	}
}

// escapeTSV replaces tabs and newlines in a string for TSV safety.
func escapeTSV(s string) string {
	return strings.NewReplacer(`\`, `\\`, "\t", `\t`, "\n", `\n`, "\r", `\r`).Replace(s)
}
