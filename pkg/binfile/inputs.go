// Copyright Quill Software Inc.
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
package binfile

import (
	"encoding/json"
	"fmt"

	"github.com/quill-zk/quill/pkg/synth"
)

// jsonInputs mirrors the sections of an input file.  Every section maps
// entry-point parameter names to input literals.
type jsonInputs struct {
	Public  map[string]jsonInputValue `json:"public,omitempty"`
	Private map[string]jsonInputValue `json:"private,omitempty"`
	Record  map[string]jsonInputValue `json:"record,omitempty"`
	State   map[string]jsonInputValue `json:"state,omitempty"`
}

// jsonInputValue is a union over input literal forms: exactly one variant
// field is set.  Integer and field values are decimal strings, since they can
// exceed what a JSON number holds exactly.
type jsonInputValue struct {
	Bool  *bool             `json:"bool,omitempty"`
	Int   *string           `json:"int,omitempty"`
	Group *jsonGroupLiteral `json:"group,omitempty"`
	List  []jsonInputValue  `json:"list,omitempty"`
}

// InputsFromJSON decodes an input file into its canonical sections.
func InputsFromJSON(data []byte) (*synth.Inputs, error) {
	var ji jsonInputs
	//
	if err := json.Unmarshal(data, &ji); err != nil {
		return nil, err
	}
	//
	inputs := &synth.Inputs{}
	//
	var err error
	//
	if inputs.Public, err = sectionToInputs(ji.Public); err != nil {
		return nil, err
	}
	//
	if inputs.Private, err = sectionToInputs(ji.Private); err != nil {
		return nil, err
	}
	//
	if inputs.Record, err = sectionToInputs(ji.Record); err != nil {
		return nil, err
	}
	//
	if inputs.State, err = sectionToInputs(ji.State); err != nil {
		return nil, err
	}
	//
	return inputs, nil
}

func sectionToInputs(section map[string]jsonInputValue) (synth.Section, error) {
	if section == nil {
		return nil, nil
	}
	//
	built := make(synth.Section, len(section))
	//
	for name, value := range section {
		input, err := value.toInput()
		if err != nil {
			return nil, fmt.Errorf("input \"%s\": %w", name, err)
		}
		//
		built[name] = input
	}
	//
	return built, nil
}

func (p *jsonInputValue) toInput() (synth.InputValue, error) {
	switch {
	case p.Bool != nil:
		return synth.BoolInput(*p.Bool), nil
	case p.Int != nil:
		value, err := parseBigInt(*p.Int)
		if err != nil {
			return nil, err
		}
		//
		return synth.IntInput{Value: value}, nil
	case p.Group != nil:
		x, err := parseBigInt(p.Group.X)
		if err != nil {
			return nil, err
		}
		//
		y, err := parseBigInt(p.Group.Y)
		if err != nil {
			return nil, err
		}
		//
		return synth.GroupInput{X: x, Y: y}, nil
	case p.List != nil:
		list := make(synth.ListInput, len(p.List))
		//
		for i := range p.List {
			element, err := p.List[i].toInput()
			if err != nil {
				return nil, err
			}
			//
			list[i] = element
		}
		//
		return list, nil
	}
	//
	return nil, fmt.Errorf("malformed input value")
}
