package depgraph

import "testing"

func mustCatalog(t *testing.T, schemas []string, locations map[string][]string) *Catalog {
	t.Helper()
	c, err := NewCatalog(schemas, locations)
	if err != nil {
		t.Fatalf("NewCatalog failed: %v", err)
	}
	return c
}

func TestNewCatalog_NoSchemas(t *testing.T) {
	if _, err := NewCatalog(nil, nil); err == nil {
		t.Fatal("expected error for empty schema list")
	}
	if _, err := NewCatalog([]string{}, map[string][]string{"t": {"dbo"}}); err == nil {
		t.Fatal("expected error for empty schema list")
	}
}

func TestCatalog_Immutable(t *testing.T) {
	schemas := []string{"dbo", "sales"}
	locations := map[string][]string{"Orders": {"sales"}}
	c := mustCatalog(t, schemas, locations)

	// Mutating the inputs after construction must not affect the catalog
	schemas[0] = "mutated"
	locations["Orders"][0] = "mutated"

	if c.DefaultSchema() != "dbo" {
		t.Errorf("expected default schema dbo, got %s", c.DefaultSchema())
	}
	schema, ambiguous := c.Resolve("Orders", "")
	if schema != "sales" || ambiguous {
		t.Errorf("expected (sales, false), got (%s, %v)", schema, ambiguous)
	}
}

func TestResolve_ExplicitSchemaAlwaysWins(t *testing.T) {
	c := mustCatalog(t, []string{"dbo"}, map[string][]string{
		// Knowledge base disagrees with the explicit qualification
		"Orders": {"archive"},
	})

	schema, ambiguous := c.Resolve("Orders", "sales")
	if schema != "sales" {
		t.Errorf("expected explicit schema sales, got %s", schema)
	}
	if ambiguous {
		t.Error("explicit qualification must never be ambiguous")
	}
}

func TestResolve_SingleCandidate(t *testing.T) {
	c := mustCatalog(t, []string{"dbo", "sales"}, map[string][]string{
		"Orders": {"sales"},
	})

	schema, ambiguous := c.Resolve("Orders", "")
	if schema != "sales" || ambiguous {
		t.Errorf("expected (sales, false), got (%s, %v)", schema, ambiguous)
	}
}

func TestResolve_MultipleCandidates_FirstWinsAmbiguous(t *testing.T) {
	c := mustCatalog(t, []string{"dbo"}, map[string][]string{
		"Customer": {"sales", "hr"},
	})

	schema, ambiguous := c.Resolve("Customer", "")
	if schema != "sales" {
		t.Errorf("expected first candidate sales, got %s", schema)
	}
	if !ambiguous {
		t.Error("multiple candidates must be flagged ambiguous")
	}
}

func TestResolve_UnknownFallsBackToDefault(t *testing.T) {
	c := mustCatalog(t, []string{"dbo", "sales"}, nil)

	schema, ambiguous := c.Resolve("Mystery", "")
	if schema != "dbo" {
		t.Errorf("expected default schema dbo, got %s", schema)
	}
	if !ambiguous {
		t.Error("unknown object must be flagged ambiguous")
	}
}

func TestResolve_CaseInsensitiveLookup(t *testing.T) {
	c := mustCatalog(t, []string{"dbo"}, map[string][]string{
		"Orders": {"sales"},
	})

	schema, ambiguous := c.Resolve("ORDERS", "")
	if schema != "sales" || ambiguous {
		t.Errorf("expected (sales, false), got (%s, %v)", schema, ambiguous)
	}
}

func TestSplitObjectName(t *testing.T) {
	tests := []struct {
		text   string
		schema string
		name   string
	}{
		{"Orders", "", "Orders"},
		{"sales.Orders", "sales", "Orders"},
		{`"sales"."Order Lines"`, "sales", "Order Lines"},
		{"[dbo].[usp_Load]", "dbo", "usp_Load"},
		{"`db`.`t`", "db", "t"},
		{"server.db.schema.t", "", "server.db.schema.t"}, // >1 dot: bare
		{`"quoted.name"`, "quoted", "name"},              // textual approximation
		{"#Temp", "", "#Temp"},
		{"", "", ""},
	}

	for _, tt := range tests {
		schema, name := SplitObjectName(tt.text)
		if schema != tt.schema || name != tt.name {
			t.Errorf("SplitObjectName(%q) = (%q, %q), want (%q, %q)",
				tt.text, schema, name, tt.schema, tt.name)
		}
	}
}
