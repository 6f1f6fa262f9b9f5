// Copyright 2025 the original author or authors.
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

package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"m4o.io/o5m/model"
)

func TestDegreesAngle(t *testing.T) {
	assert.True(t, model.Angle(0.78539816).EqualWithin(model.Degrees(45.0).Angle(), model.E7))
}

func TestDegreesEx(t *testing.T) {
	d := model.Degrees(53.123456789)

	assert.Equal(t, int32(5312346), d.E5())
	assert.Equal(t, int32(53123457), d.E6())
	assert.Equal(t, int32(531234568), d.E7())
}

func TestDegreesParse(t *testing.T) {
	d, err := model.ParseDegrees("53.123450")
	if err != nil {
		t.Error(err)
	}

	assert.True(t, model.Degrees(53.123450).EqualWithin(d, model.E5))

	_, err = model.ParseDegrees("abc")
	if err == nil {
		t.Error("Parsing should have failed")
	}
}

func TestDegreesEqualWithin(t *testing.T) {
	assert.True(t, model.Degrees(53.123450).EqualWithin(model.Degrees(53.123454), model.E5))
	assert.False(t, model.Degrees(53.123450).EqualWithin(model.Degrees(53.123455), model.E5))
}

func TestDegreesString(t *testing.T) {
	assert.Equal(t, "53° 7' 24.42\"", model.Degrees(53.123450).String())
}

func TestToDegrees(t *testing.T) {
	assert.True(t, model.ToDegrees(531234568).Rounded().EqualWithin(model.Degrees(53.1234568), model.E7))
	assert.True(t, model.ToDegrees(-5114820).Rounded().EqualWithin(model.Degrees(-0.511482), model.E7))
	assert.Equal(t, model.Degrees(0), model.ToDegrees(0))
}

func TestDegreesRounded(t *testing.T) {
	assert.Equal(t, model.Degrees(1), model.ToDegrees(10000000).Rounded())
	assert.Equal(t, model.Degrees(53.1234567), model.Degrees(53.12345674).Rounded())
}

func TestValidLatLon(t *testing.T) {
	assert.True(t, model.ValidLat(model.MaxLat))
	assert.True(t, model.ValidLat(model.MinLat))
	assert.False(t, model.ValidLat(model.MaxLat+model.Degrees(model.E7)))
	assert.False(t, model.ValidLat(model.MinLat-model.Degrees(model.E7)))

	assert.True(t, model.ValidLon(model.MaxLon))
	assert.True(t, model.ValidLon(model.MinLon))
	assert.False(t, model.ValidLon(model.MaxLon+model.Degrees(model.E7)))
	assert.False(t, model.ValidLon(model.MinLon-model.Degrees(model.E7)))
}
