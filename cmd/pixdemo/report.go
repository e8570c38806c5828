package main

import (
	"fmt"
	"io"

	"github.com/goccy/go-yaml"
	"github.com/k1LoW/errors"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/pixref/bitmapcache"
)

type fileResult struct {
	Name    string `yaml:"name"`
	Format  string `yaml:"format"`
	Size    string `yaml:"size"`
	Refs    int    `yaml:"refs"`
	Locks   int    `yaml:"locks"`
	Decodes int    `yaml:"decodes"`
	PHash   string `yaml:"phash"`
}

type report struct {
	Store string            `yaml:"store"`
	Files []fileResult      `yaml:"files"`
	Stats bitmapcache.Stats `yaml:"stats"`
}

func (r *report) write(w io.Writer, format string) (err error) {
	defer func() {
		err = errors.WithStack(err)
	}()

	switch format {
	case "text":
		p := message.NewPrinter(language.English)
		for _, f := range r.Files {
			if _, err := p.Fprintf(w, "%s: %s %s, %d refs, %d locks, %d decodes, %s\n",
				f.Name, f.Format, f.Size, f.Refs, f.Locks, f.Decodes, f.PHash); err != nil {
				return err
			}
		}
		st := r.Stats
		_, err := p.Fprintf(w, "store %s: %d entries, %d bytes, %d hits, %d misses, %d evictions\n",
			r.Store, st.Entries, st.Bytes, st.Hits, st.Misses, st.Evictions)
		return err
	case "yaml":
		b, err := yaml.Marshal(r)
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}
