package validate

import "testing"

type registerInput struct {
	Name     string `json:"name"     validate:"required,between=3|30"`
	Password string `json:"password" validate:"required,min=6"`
}

func TestStructAllValid(t *testing.T) {
	errs := Struct(&registerInput{Name: "merlin", Password: "abracadabra"})
	if HasErrors(errs) {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestStructReportsAllFields(t *testing.T) {
	errs := Struct(&registerInput{})
	if len(errs) != 2 {
		t.Fatalf("expected 2 field errors, got %d: %v", len(errs), errs)
	}
	if errs["name"] != "Le champ name est requis." {
		t.Errorf("name message = %q", errs["name"])
	}
	if errs["password"] != "Le champ password est requis." {
		t.Errorf("password message = %q", errs["password"])
	}
}

func TestStructFirstFailingRuleWins(t *testing.T) {
	// A whitespace-only name fails `required` before `between` is reached.
	errs := Struct(&registerInput{Name: "   ", Password: "abracadabra"})
	if errs["name"] != "Le champ name est requis." {
		t.Errorf("name message = %q", errs["name"])
	}
}

func TestBetweenLength(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"ab", "Doit faire entre 3 et 30 caractères."},
		{"abc", ""},
		{"123456789012345678901234567890", ""},
		{"1234567890123456789012345678901", "Doit faire entre 3 et 30 caractères."},
	}
	for _, c := range cases {
		errs := Struct(&registerInput{Name: c.name, Password: "abracadabra"})
		if errs["name"] != c.want {
			t.Errorf("name %q: got %q, want %q", c.name, errs["name"], c.want)
		}
	}
}

func TestMinLength(t *testing.T) {
	errs := Struct(&registerInput{Name: "merlin", Password: "12345"})
	if errs["password"] != "Minimum 6 caractères." {
		t.Errorf("password message = %q", errs["password"])
	}
}

func TestNumericAndBounds(t *testing.T) {
	type in struct {
		Price float64 `json:"price" validate:"numeric,min=0"`
	}
	if errs := Struct(&in{Price: 12.5}); HasErrors(errs) {
		t.Fatalf("expected no errors, got %v", errs)
	}
	if errs := Struct(&in{Price: -1}); errs["price"] != "Minimum 0." {
		t.Errorf("price message = %q", errs["price"])
	}
}

func TestInRule(t *testing.T) {
	type in struct {
		Kind string `json:"kind" validate:"in=vendor|category"`
	}
	if errs := Struct(&in{Kind: "vendor"}); HasErrors(errs) {
		t.Fatalf("expected no errors, got %v", errs)
	}
	if errs := Struct(&in{Kind: "color"}); errs["kind"] != "La valeur du champ kind est invalide." {
		t.Errorf("kind message = %q", errs["kind"])
	}
}

func TestStructNonStruct(t *testing.T) {
	if errs := Struct("not a struct"); HasErrors(errs) {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestSanitize(t *testing.T) {
	in := registerInput{Name: "  <b>merlin</b>  ", Password: " s3cret "}
	Sanitize(&in)
	if in.Name != "&lt;b&gt;merlin&lt;/b&gt;" {
		t.Errorf("Name = %q", in.Name)
	}
	if in.Password != "s3cret" {
		t.Errorf("Password = %q", in.Password)
	}
}

func TestSanitizePointerFields(t *testing.T) {
	type patch struct {
		Name  *string
		Price *float64
	}
	name := "  <i>élixir</i> "
	price := 3.5
	in := patch{Name: &name, Price: &price}
	Sanitize(&in)

	if *in.Name != "&lt;i&gt;élixir&lt;/i&gt;" {
		t.Errorf("Name = %q", *in.Name)
	}
	if *in.Price != 3.5 {
		t.Errorf("Price = %v", *in.Price)
	}

	Sanitize(&patch{}) // nil pointers must not panic
}

func TestSanitizeNonPointer(t *testing.T) {
	in := registerInput{Name: " merlin "}
	Sanitize(in) // no-op, must not panic
	if in.Name != " merlin " {
		t.Errorf("value receiver mutated: %q", in.Name)
	}
}
