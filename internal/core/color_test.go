package core

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    Color
		wantErr bool
	}{
		{"blau", ColorBlue, false},
		{"Blau", ColorBlue, false},
		{"  rot ", ColorRed, false},
		{"GRÜN", ColorGreen, false},
		{"gruen", ColorGreen, false},
		{"green", ColorGreen, false},
		{"violett", ColorViolet, false},
		{"purple", ColorViolet, false},
		{"gelb", ColorYellow, false},
		{"türkis", ColorTurquoise, false},
		{"tuerkis", ColorTurquoise, false},
		{"weiß", ColorWhite, false},
		{"weiss", ColorWhite, false},
		{"1", ColorBlue, false},
		{"7", ColorWhite, false},
		{"0", 0, true},
		{"8", 0, true},
		{"pink", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidColor) {
					t.Fatalf("ParseColor(%q) error = %v, want ErrInvalidColor", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseColor(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestColorString(t *testing.T) {
	if got := ColorTurquoise.String(); got != "türkis" {
		t.Errorf("String() = %q, want türkis", got)
	}
	if got := Color(42).String(); got != "Color(42)" {
		t.Errorf("String() = %q, want Color(42)", got)
	}
	if n := len(Colors()); n != 7 {
		t.Errorf("len(Colors()) = %d, want 7", n)
	}
}

func TestColorJSON(t *testing.T) {
	data, err := json.Marshal(Person{ID: 1, FirstName: "Hans", LastName: "Müller", Color: ColorWhite})
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	want := `{"id":1,"firstName":"Hans","lastName":"Müller","address":"","color":"weiß"}`
	if string(data) != want {
		t.Errorf("Marshal = %s, want %s", data, want)
	}

	if _, err := json.Marshal(Color(0)); err == nil {
		t.Error("Marshal of zero color should fail")
	}

	tests := []struct {
		body string
		want Color
	}{
		{`{"color":"rot"}`, ColorRed},
		{`{"color":"Red"}`, ColorRed},
		{`{"color":4}`, ColorRed},
		{`{"color":"4"}`, ColorRed},
		{`{}`, 0},
		{`{"color":null}`, 0},
	}
	for _, tt := range tests {
		var m PersonCreateModel
		if err := json.Unmarshal([]byte(tt.body), &m); err != nil {
			t.Errorf("Unmarshal(%s) error = %v", tt.body, err)
			continue
		}
		if m.Color != tt.want {
			t.Errorf("Unmarshal(%s) color = %v, want %v", tt.body, m.Color, tt.want)
		}
	}

	var m PersonCreateModel
	err = json.Unmarshal([]byte(`{"color":"pink"}`), &m)
	if !errors.Is(err, ErrInvalidColor) {
		t.Errorf("Unmarshal unknown color error = %v, want ErrInvalidColor", err)
	}
}

func TestNullColorIsRequiredFieldError(t *testing.T) {
	var m PersonCreateModel
	if err := json.Unmarshal([]byte(`{"firstName":"Hans","lastName":"Müller","color":null}`), &m); err != nil {
		t.Fatalf("Unmarshal error = %v", err)
	}

	_, err := Validate(m)
	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("Validate() error = %v, want ValidationErrors", err)
	}
	if len(verrs) != 1 || verrs[0].Field != "color" || verrs[0].Message != "required field is empty" {
		t.Errorf("Validate() = %+v, want a required error on color", verrs)
	}
	if errors.Is(err, ErrInvalidColor) {
		t.Error("null color must not be reported as an unknown color")
	}
}

func TestParseColorErrorText(t *testing.T) {
	_, err := ParseColor("pink")
	if got, want := err.Error(), `unknown color "pink"`; got != want {
		t.Errorf("ParseColor error = %q, want %q", got, want)
	}
}

func TestColorChoices(t *testing.T) {
	want := "blau, grün, violett, rot, gelb, türkis, weiß"
	if got := colorChoices(); got != want {
		t.Errorf("colorChoices() = %q, want %q", got, want)
	}
	if action := MapError(ErrInvalidColor).Action; action != "Use one of: "+want+" (or 1-7)" {
		t.Errorf("VAL001 action = %q", action)
	}
}
