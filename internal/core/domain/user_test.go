package domain

import (
	"encoding/json"
	"testing"
)

func TestUserID_AcceptsStringAndNumber(t *testing.T) {
	cases := map[string]UserID{
		`{"id":1}`:          "1",
		`{"id":"1"}`:        "1",
		`{"id":"65f0a1b2"}`: "65f0a1b2",
		`{"id":null}`:       "",
	}
	for in, want := range cases {
		var u User
		if err := json.Unmarshal([]byte(in), &u); err != nil {
			t.Fatalf("unmarshal %s: %v", in, err)
		}
		if u.ID != want {
			t.Fatalf("%s: expected id %q, got %q", in, want, u.ID)
		}
	}
}

func TestUserID_RejectsGarbage(t *testing.T) {
	var u User
	if err := json.Unmarshal([]byte(`{"id":true}`), &u); err == nil {
		t.Fatalf("expected error for boolean id")
	}
}

func TestUser_Initial(t *testing.T) {
	u := &User{Name: "ángela"}
	if got := u.Initial(); got != "Á" {
		t.Fatalf("expected Á, got %q", got)
	}
	if got := (&User{}).Initial(); got != "" {
		t.Fatalf("expected empty initial, got %q", got)
	}
}

func TestGatewayError_Message(t *testing.T) {
	if got := (&GatewayError{Status: 401, Message: "Invalid email or password"}).Error(); got != "Invalid email or password" {
		t.Fatalf("unexpected message: %s", got)
	}
	if !(&GatewayError{}).Transport() {
		t.Fatalf("zero status should be a transport error")
	}
}
