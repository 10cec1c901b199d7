package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"vietnamese diacritics and parens", "Báo cáo (final) v2.docx", "Bao-cao-final-v2.docx"},
		{"plain ascii passes through", "report.docx", "report.docx"},
		{"spaces collapse to hyphens", "quarterly   report  2024.zip", "quarterly-report-2024.zip"},
		{"mixed hyphen and space runs", "a - b -- c.rar", "a-b-c.rar"},
		{"special characters dropped", "hợp đồng #12 @draft!.doc", "hop-ong-12-draft.doc"},
		{"underscores kept", "du_an_moi.docx", "du_an_moi.docx"},
		{"leading and trailing space trimmed", "  ghi chú .txt", "ghi-chu-.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, SanitizeFilename(tt.input))
		})
	}
}
