// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package primitive

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/valyala/fasttemplate"
)

// AggregationContext supplies the parts of an aggregation name which are
// determined by where it is applied.
type AggregationContext struct {
	// Path identifies the grouping the aggregation is applied over.
	Path string
	// Where is an optional filter clause, rendered verbatim.
	Where string
	// UsePrevious is an optional window clause, rendered verbatim.
	UsePrevious string
}

// Names returns the names of the columns produced by applying a transform
// primitive to the named inputs.  By default, this is "NAME(a, b, k=v)", with
// multiple outputs suffixed "[0]", "[1]", etc.
func Names(p Primitive, inputs []string) []string {
	var name string
	//
	if namer, ok := p.(Namer); ok {
		name = namer.FeatureName(inputs)
	} else {
		name = fmt.Sprintf("%s(%s%s)", strings.ToUpper(p.Name()), strings.Join(inputs, ", "), p.ArgString())
	}
	//
	return fanOut(name, p.Class().NumOutputs)
}

// AggregationNames returns the names of the columns produced by applying an
// aggregation primitive to the named inputs, as in "SUM(path.a, k=v)".
func AggregationNames(p Primitive, inputs []string, ctx AggregationContext) []string {
	var name string
	//
	if namer, ok := p.(Namer); ok {
		name = namer.FeatureName(inputs)
	} else {
		name = fmt.Sprintf("%s(%s.%s%s%s%s)", strings.ToUpper(p.Name()), ctx.Path, strings.Join(inputs, ", "),
			ctx.Where, ctx.UsePrevious, p.ArgString())
	}
	//
	return fanOut(name, p.Class().NumOutputs)
}

func fanOut(name string, n uint) []string {
	if n <= 1 {
		return []string{name}
	}
	//
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("%s[%d]", name, i)
	}
	//
	return names
}

// Describe returns a description of applying a primitive to inputs with the
// given descriptions.  The first template is used, with each "{}" replaced by
// the next input description.  Without a template, the description is "the
// result of applying NAME to X, Y".
func Describe(p Primitive, inputs []string) string {
	if templates := p.Templates(); len(templates) > 0 {
		return render(templates[0], inputs, "")
	}
	//
	return fmt.Sprintf("the result of applying %s to %s", strings.ToUpper(p.Name()), strings.Join(inputs, ", "))
}

// DescribeSlice returns a description of a single output of a primitive.
// When there are several templates, the template following the first is used
// for the first output, and so on, with the second template reused for all
// outputs if there are only two.  A "{nth_slice}" placeholder is replaced by
// the ordinal of the output (e.g. "second").  Without a template, the
// description is "the second output from applying NAME to X, Y".
func DescribeSlice(p Primitive, inputs []string, slice uint) (string, error) {
	var (
		templates = p.Templates()
		index     = slice + 1
		nth       = Ordinal(index)
	)
	//
	switch {
	case len(templates) == 0:
		return fmt.Sprintf("the %s output from applying %s to %s", nth, strings.ToUpper(p.Name()),
			strings.Join(inputs, ", ")), nil
	case len(templates) == 1:
		return render(templates[0], inputs, nth), nil
	case index < uint(len(templates)):
		return render(templates[index], inputs, nth), nil
	case len(templates) == 2:
		return render(templates[1], inputs, nth), nil
	default:
		return "", fmt.Errorf("output %d of primitive %s has no description template", slice, p.Name())
	}
}

// Descriptions returns a description for each output of a primitive.
func Descriptions(p Primitive, inputs []string) ([]string, error) {
	n := p.Class().NumOutputs
	if n <= 1 {
		return []string{Describe(p, inputs)}, nil
	}
	//
	descriptions := make([]string, n)
	//
	for i := range descriptions {
		var err error
		if descriptions[i], err = DescribeSlice(p, inputs, uint(i)); err != nil {
			return nil, err
		}
	}
	//
	return descriptions, nil
}

// render fills a description template.  Positional placeholders ("{}") are
// filled in order, and unknown placeholders are left as is.
func render(template string, inputs []string, nth string) string {
	next := 0
	//
	return fasttemplate.ExecuteFuncString(template, "{", "}", func(w io.Writer, tag string) (int, error) {
		switch {
		case tag == "" && next < len(inputs):
			next++
			return w.Write([]byte(inputs[next-1]))
		case tag == "nth_slice" && nth != "":
			return w.Write([]byte(nth))
		default:
			return w.Write([]byte("{" + tag + "}"))
		}
	})
}

var ordinals = []string{"zeroth", "first", "second", "third", "fourth", "fifth", "sixth", "seventh", "eighth",
	"ninth", "tenth", "eleventh", "twelfth"}

// Ordinal renders a number in ordinal form, using words for small numbers (e.g.
// "second") and digits otherwise (e.g. "21st").
func Ordinal(n uint) string {
	if n < uint(len(ordinals)) {
		return ordinals[n]
	}
	//
	return humanize.Ordinal(int(n))
}
