// Package export serializes registrations into an RFC 4180 CSV download.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/mbolis/club-site/model"
	"github.com/mbolis/club-site/schema"
)

// Registrations writes one row per registration. The header row carries
// the union of input field labels across every schema snapshot plus the
// metadata columns. Objects are stringified as JSON; file references are
// reduced to their URL.
func Registrations(w io.Writer, regs []model.Registration) error {
	cw := csv.NewWriter(w)

	if len(regs) == 0 {
		cw.Write([]string{"activityId", "activityTitle", "submittedAt", "status"})
		cw.Flush()
		return cw.Error()
	}

	columns := inputColumns(regs)

	header := make([]string, 0, len(columns)+4)
	for _, f := range columns {
		header = append(header, f.Label)
	}
	header = append(header, "activityId", "activityTitle", "submittedAt", "status")
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, reg := range regs {
		row := make([]string, 0, len(header))
		for _, f := range columns {
			row = append(row, cellValue(reg.Responses[f.ID]))
		}
		row = append(row,
			fmt.Sprint(reg.ActivityID),
			reg.ActivityTitle,
			reg.SubmittedAt.Format("2006-01-02 15:04:05"),
			string(reg.Status),
		)
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// inputColumns unions the input fields of every snapshot, in first-seen
// order, so registrations submitted against different schema versions all
// keep their answers lined up under the right label.
func inputColumns(regs []model.Registration) (fields []schema.Field) {
	seen := map[string]bool{}
	for _, reg := range regs {
		for _, f := range reg.FormSchema {
			if f.Kind.IsInput() && !seen[f.ID] {
				seen[f.ID] = true
				fields = append(fields, f)
			}
		}
	}
	return
}

func cellValue(v any) string {
	switch vv := v.(type) {
	case nil:
		return ""
	case string:
		return vv
	case schema.FileRef:
		return vv.FileUrl
	case map[string]any:
		// file refs come back from the DB as plain maps
		if url, ok := vv["fileUrl"].(string); ok && url != "" {
			return url
		}
	}

	out, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(out)
}
