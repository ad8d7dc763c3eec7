// SPDX-License-Identifier: MPL-2.0

package catalog

import "github.com/ama-terasu/amaterasu/pkg/modules"

// orderedRecords is a name-keyed map that iterates in first-insertion order while
// every Set overwrites the stored value. A name written twice keeps the position of
// its first write and the content of its last.
type orderedRecords struct {
	index   map[string]int
	records []modules.Record
}

func newOrderedRecords(capacity int) *orderedRecords {
	return &orderedRecords{
		index:   make(map[string]int, capacity),
		records: make([]modules.Record, 0, capacity),
	}
}

func (o *orderedRecords) Set(rec modules.Record) {
	if i, ok := o.index[rec.Name]; ok {
		o.records[i] = rec
		return
	}
	o.index[rec.Name] = len(o.records)
	o.records = append(o.records, rec)
}

func (o *orderedRecords) Len() int { return len(o.records) }

// Values returns the records in key-insertion order.
func (o *orderedRecords) Values() modules.Catalogue {
	return modules.Catalogue(o.records)
}
