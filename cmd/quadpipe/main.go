// Copyright 2022 The Quadstore Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// quadpipe reads RDF statements in one syntax, loads them into an
// indexed in-memory model, and writes the model back out in another.
package main

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/cayleygraph/quad"

	// Load the supported quad formats.
	_ "github.com/cayleygraph/quad/nquads"

	"github.com/spf13/cobra"

	"github.com/rdfkit/quadstore/clog"
	_ "github.com/rdfkit/quadstore/clog/glog"
	"github.com/rdfkit/quadstore/memstore"
	"github.com/rdfkit/quadstore/rdf"
	"github.com/rdfkit/quadstore/stream"
)

const version = "0.2.0"

// syntaxFormat maps a user-facing syntax name to a registered quad
// format. N-Triples documents are a subset of N-Quads, so both names
// resolve to the same reader; on output the name decides whether graph
// positions are written.
func syntaxFormat(name string) (*quad.Format, error) {
	switch name {
	case "nquads", "ntriples":
		if f := quad.FormatByName("nquads"); f != nil {
			return f, nil
		}
	}
	return nil, fmt.Errorf("unknown syntax %q (supported: ntriples, nquads)", name)
}

// openInput resolves the input argument to a reader. "-" is stdin and
// file: URIs are resolved to local paths.
func openInput(arg string) (io.ReadCloser, error) {
	if arg == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	name := arg
	if strings.HasPrefix(arg, "file:") {
		u, err := url.Parse(arg)
		if err != nil {
			return nil, fmt.Errorf("parsing input URI %q: %v", arg, err)
		}
		name = u.Path
	}
	return os.Open(name)
}

// NewCmd creates the command
func NewCmd() *cobra.Command {
	var inSyntax, outSyntax, literal string

	cmd := &cobra.Command{
		Use:           "quadpipe [-i SYNTAX] [-o SYNTAX] (-s STRING | - | FILE) [BASE_URI]",
		Short:         "Pipe RDF statements through an indexed in-memory quad store.",
		Version:       version,
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			inFormat, err := syntaxFormat(inSyntax)
			if err != nil {
				return err
			}
			outFormat, err := syntaxFormat(outSyntax)
			if err != nil {
				return err
			}

			var in io.Reader
			rest := args
			if literal != "" {
				in = strings.NewReader(literal)
			} else {
				if len(args) == 0 {
					return errors.New("either provide a file to read from or pass -s")
				}
				rc, err := openInput(args[0])
				if err != nil {
					return err
				}
				defer rc.Close()
				in = rc
				rest = args[1:]
			}
			if len(rest) > 0 {
				// Line-based syntaxes carry absolute IRIs already.
				clog.Debugf(1, "base URI %q ignored for syntax %q", rest[0], inSyntax)
			}

			world := rdf.NewWorld()
			model := memstore.New(world, 0, true)
			defer model.Close()

			r := inFormat.Reader(in)
			defer r.Close()
			n, err := stream.Load(model, r)
			if err != nil {
				return fmt.Errorf("reading %s: %v", inSyntax, err)
			}
			clog.Debugf(1, "loaded %d statements, %d quads, %d terms",
				n, model.NumQuads(), world.NumTerms())

			w := outFormat.Writer(cmd.OutOrStdout())
			if outSyntax == "ntriples" {
				_, err = stream.ExportTriples(model, w)
			} else {
				_, err = stream.Export(model, w)
			}
			if err != nil {
				w.Close()
				return fmt.Errorf("writing %s: %v", outSyntax, err)
			}
			return w.Close()
		},
	}
	cmd.Flags().StringVarP(&inSyntax, "in", "i", "ntriples", "input syntax (ntriples, nquads)")
	cmd.Flags().StringVarP(&outSyntax, "out", "o", "ntriples", "output syntax (ntriples, nquads)")
	cmd.Flags().StringVarP(&literal, "string", "s", "", "read statements from the given string")
	cmd.Flags().BoolP("version", "v", false, "print the version and exit")
	return cmd
}

func main() {
	if err := NewCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
