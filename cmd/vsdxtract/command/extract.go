// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package command

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	xtract "github.com/sassoftware/viya-vsd-xtract"
)

var outputDir string

// fileSink writes every drawn image to its own file under dir.
type fileSink struct {
	dir     string
	page    int
	image   int
	written []writtenImage
	err     error
}

type writtenImage struct {
	Page      int              `json:"page"`
	Path      string           `json:"path"`
	MediaType xtract.MediaType `json:"mediaType"`
	Bytes     int              `json:"bytes"`
}

func (s *fileSink) StartPage(xtract.PageProperties) {
	s.page++
	s.image = 0
}

func (s *fileSink) EndPage() {}

func (s *fileSink) DrawImage(props xtract.ImageProperties, payload []byte) {
	if s.err != nil {
		return
	}
	s.image++
	name := fmt.Sprintf("page-%03d-image-%03d%s", s.page, s.image, extensionFor(props.MediaType))
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		s.err = err
		return
	}
	s.written = append(s.written, writtenImage{Page: s.page, Path: path, MediaType: props.MediaType, Bytes: len(payload)})
}

func extensionFor(mt xtract.MediaType) string {
	switch mt {
	case xtract.MediaBMP:
		return ".bmp"
	case xtract.MediaEMF:
		return ".emf"
	case xtract.MediaWMF:
		return ".wmf"
	default:
		return ".bin"
	}
}

func NewExtractCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract <file>",
		Short: "write every embedded image to a directory",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			cfg := mustLoadConfig(cmd)
			if err := os.MkdirAll(outputDir, 0o755); err != nil {
				cmdFailedf(cmd, "create output directory failed: %s", err)
			}
			p, err := xtract.NewProcessor(cfg)
			if err != nil {
				cmdFailedf(cmd, "create processor failed: %s", err)
			}

			sink := &fileSink{dir: outputDir}
			decodeErr := p.Decode(context.Background(), args[0], sink)
			if sink.err != nil {
				cmdFailedf(cmd, "write image failed: %s", sink.err)
			}

			if IsFormatJSON() {
				printJSON(sink.written)
			} else {
				t := newTable(table.Row{"Page", "File", "Media", "Bytes"})
				for _, w := range sink.written {
					t.AppendRow(table.Row{w.Page, w.Path, w.MediaType, w.Bytes})
				}
				t.Render()
			}
			if decodeErr != nil {
				cmdFailedf(cmd, "decode %s failed: %s", args[0], decodeErr)
			}
			color.Green("%d images written to %s", len(sink.written), outputDir)
			flushTrace()
		},
	}
	cmd.Flags().StringVarP(&outputDir, "output", "o", ".", "directory the images are written to")
	return cmd
}
