package docx

import (
	"testing"
	"time"
)

func TestFilename(t *testing.T) {
	day := time.Date(2026, 8, 25, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		person   string
		jobTitle string
		company  string
		want     string
	}{
		{
			name:   "plain",
			person: "Jane Doe", jobTitle: "Go Developer", company: "Acme",
			want: "Jane_Doe_Go_Developer_Acme_20260825.docx",
		},
		{
			name:   "punctuation stripped",
			person: "Jane Doe", jobTitle: "Sr. Engineer (Go)", company: "Acme, Inc.",
			want: "Jane_Doe_Sr_Engineer_Go_Acme_Inc_20260825.docx",
		},
		{
			name:   "path separators stripped",
			person: "Jane/Doe", jobTitle: "DevOps/SRE", company: "A\\B",
			want: "JaneDoe_DevOpsSRE_AB_20260825.docx",
		},
		{
			name:   "empty parts skipped",
			person: "Jane Doe", jobTitle: "", company: "Acme",
			want: "Jane_Doe_Acme_20260825.docx",
		},
		{
			name:   "unicode kept",
			person: "José Núñez", jobTitle: "Développeur Go", company: "Süd GmbH",
			want: "José_Núñez_Développeur_Go_Süd_GmbH_20260825.docx",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filename(tt.person, tt.jobTitle, tt.company, day)
			if got != tt.want {
				t.Errorf("Filename = %q, want %q", got, tt.want)
			}
		})
	}
}
