package migrate

import "testing"

func TestExtractUp(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "no markers",
			content: "CREATE TABLE a (id INT);",
			want:    "CREATE TABLE a (id INT);",
		},
		{
			name:    "up only",
			content: "-- +migrate Up\nCREATE TABLE a (id INT);",
			want:    "\nCREATE TABLE a (id INT);",
		},
		{
			name:    "up and down",
			content: "-- +migrate Up\nCREATE TABLE a (id INT);\n-- +migrate Down\nDROP TABLE a;",
			want:    "\nCREATE TABLE a (id INT);\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractUp(tt.content); got != tt.want {
				t.Fatalf("ExtractUp() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDialectStatements(t *testing.T) {
	if got := Postgres.selectApplied(); got != "SELECT 1 FROM schema_migrations WHERE name = $1" {
		t.Fatalf("postgres select = %q", got)
	}
	if got := SQLite.selectApplied(); got != "SELECT 1 FROM schema_migrations WHERE name = ?" {
		t.Fatalf("sqlite select = %q", got)
	}
}
