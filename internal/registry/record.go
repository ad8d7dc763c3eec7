// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"time"

	"github.com/ama-terasu/amaterasu/pkg/manifest"
	"github.com/ama-terasu/amaterasu/pkg/modules"
)

type (
	// wireRecord is the package summary shared by `npm search --json` output and the
	// registry search endpoint.
	wireRecord struct {
		Name        string                `json:"name"`
		Scope       string                `json:"scope"`
		Version     string                `json:"version"`
		Description string                `json:"description"`
		Keywords    manifest.StringList   `json:"keywords"`
		Date        string                `json:"date"`
		Links       map[string]string     `json:"links"`
		Maintainers []manifest.Maintainer `json:"maintainers"`
		Publisher   *manifest.Maintainer  `json:"publisher"`
	}

	// searchResponse is the JSON wire format of GET /-/v1/search.
	searchResponse struct {
		Objects []struct {
			Package wireRecord `json:"package"`
		} `json:"objects"`
		Total int `json:"total"`
	}
)

func (w *wireRecord) toRecord() modules.SearchRecord {
	rec := modules.SearchRecord{
		Metadata: manifest.Metadata{
			Name:        w.Name,
			Description: w.Description,
			Keywords:    w.Keywords,
			Maintainers: w.Maintainers,
			Version:     w.Version,
		},
		Scope: w.Scope,
		Links: w.Links,
	}
	if len(rec.Maintainers) == 0 && w.Publisher != nil {
		rec.Maintainers = []manifest.Maintainer{*w.Publisher}
	}
	if t, err := time.Parse(time.RFC3339, w.Date); err == nil {
		rec.PublishedAt = t
	}
	return rec
}

func toRecords(raw []wireRecord) []modules.SearchRecord {
	out := make([]modules.SearchRecord, 0, len(raw))
	for i := range raw {
		out = append(out, raw[i].toRecord())
	}
	return out
}
