package layout

import (
	"io"

	"gopkg.in/yaml.v3"
)

type yamlDoc struct {
	Slots   []string    `yaml:"slots"`
	Classes []yamlClass `yaml:"classes"`
}

type yamlClass struct {
	Name       string      `yaml:"name"`
	Parent     string      `yaml:"parent,omitempty"`
	Size       int64       `yaml:"size"`
	Descriptor string      `yaml:"descriptor"`
	Fields     []yamlField `yaml:"fields,omitempty"`
	Dispatch   []yamlEntry `yaml:"dispatch,omitempty"`
}

type yamlField struct {
	Name   string `yaml:"name"`
	Type   string `yaml:"type"`
	Offset int64  `yaml:"offset"`
}

type yamlEntry struct {
	Slot int    `yaml:"slot"`
	Name string `yaml:"name"`
	Impl string `yaml:"impl,omitempty"`
}

// WriteYAML writes the layouts and the slot table to w as YAML.
func (ls *Layouts) WriteYAML(w io.Writer) error {
	doc := yamlDoc{Slots: ls.names}
	for _, l := range ls.order {
		yc := yamlClass{Name: l.Name(), Size: l.Size, Descriptor: l.Desc}
		if p := l.Class.Parent(); p != nil {
			yc.Parent = p.Name()
		}
		for _, f := range l.Fields {
			yc.Fields = append(yc.Fields, yamlField{Name: f.Name(), Type: f.Var.Type().String(), Offset: f.Offset})
		}
		for _, e := range l.Dispatch {
			ye := yamlEntry{Slot: e.Slot, Name: e.Name}
			if e.Impl != nil {
				ye.Impl = e.Impl.FullName()
			}
			yc.Dispatch = append(yc.Dispatch, ye)
		}
		doc.Classes = append(doc.Classes, yc)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return err
	}
	return enc.Close()
}
