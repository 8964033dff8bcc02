package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/gogpu/descset"
	"github.com/gogpu/descset/layoutfile"
)

func writeJSON(w io.Writer, r *layoutfile.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

func writeTable(w io.Writer, r *layoutfile.Report) error {
	if _, err := fmt.Fprintf(w, "%s (profile %s): %d sets, %d dynamic buffers\n",
		r.Source, r.Profile, len(r.Sets), r.DynamicBufferCount); err != nil {
		return err
	}
	for _, s := range r.Sets {
		if s.Layout == nil {
			if _, err := fmt.Fprintf(w, "\nset %d: unused\n", s.Set); err != nil {
				return err
			}
			continue
		}
		l := s.Layout
		if _, err := fmt.Fprintf(w, "\nset %d %q: %d bytes, dynamic %d+%d, fingerprint %s\n",
			s.Set, l.Label(), l.DescriptorBufferSize(), s.DynamicBufferStart,
			l.DynamicBufferCount(), l.Fingerprint()); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, bindingTable(l)); err != nil {
			return err
		}
	}
	return nil
}

func bindingTable(l *descset.Layout) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("binding", "type", "count", "offset", "stride", "dynamic", "flags")
	for i, b := range l.Bindings() {
		if b.Type == descset.DescriptorTypeInvalid {
			continue
		}
		dynamic := "-"
		if b.Type.IsDynamic() {
			dynamic = strconv.FormatUint(uint64(b.DynamicBufferIndex), 10)
		}
		offset := "-"
		if b.Stride > 0 {
			offset = strconv.FormatUint(uint64(b.Offset), 10)
		}
		t.Row(
			strconv.Itoa(i),
			b.Type.String(),
			strconv.FormatUint(uint64(b.ArraySize), 10),
			offset,
			strconv.FormatUint(uint64(b.Stride), 10),
			dynamic,
			b.Flags.String(),
		)
	}
	return t.String()
}
