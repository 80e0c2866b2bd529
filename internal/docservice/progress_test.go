package docservice

import "testing"

const sampleLog = `timestamp,year_folder,basename,has_pdf,has_docx,date_parsed,title,status,ocr_used,cleanup_applied,wp_post_id,wp_url,author_set,error_message
2024-01-02 10:00:00,2023,doc1,True,False,2023-05-01,"Hello, world",published,False,True,12,https://blog/p/12,False,
2024-01-02 10:05:00,2023,doc2,True,True,,,skipped,False,False,,,False,
2024-01-02 10:06:00,2023,doc3,False,True,2023-06-01,Other,draft,False,False,13,,False,
2024-01-02 10:07:00,2024,doc4,True,False,,,error,False,False,,,False,timeout
`

func TestParseProgressLog(t *testing.T) {
	entries, err := ParseProgressLog([]byte(sampleLog))
	if err != nil {
		t.Fatalf("ParseProgressLog: %v", err)
	}
	if len(entries) != 4 {
		t.Fatalf("len = %d, want 4", len(entries))
	}

	first := entries[0]
	if first.Basename != "doc1" || first.Title != "Hello, world" || first.Status != "published" || first.PostURL != "https://blog/p/12" {
		t.Errorf("entries[0] = %+v", first)
	}
	if entries[3].Error != "timeout" || entries[3].Finished() {
		t.Errorf("entries[3] = %+v", entries[3])
	}
	if !entries[1].Finished() || !entries[2].Finished() {
		t.Error("skipped and draft rows should count as finished")
	}
}

func TestParseProgressLog_Edges(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		entries, err := ParseProgressLog(nil)
		if err != nil || entries != nil {
			t.Errorf("ParseProgressLog(nil) = %v, %v", entries, err)
		}
	})

	t.Run("header only", func(t *testing.T) {
		entries, err := ParseProgressLog([]byte("basename,status\n"))
		if err != nil || len(entries) != 0 {
			t.Errorf("ParseProgressLog() = %v, %v", entries, err)
		}
	})

	t.Run("reordered and short rows", func(t *testing.T) {
		entries, err := ParseProgressLog([]byte("status,basename,title\npublished,doc9\n"))
		if err != nil {
			t.Fatal(err)
		}
		if len(entries) != 1 || entries[0].Basename != "doc9" || entries[0].Status != "published" || entries[0].Title != "" {
			t.Errorf("entries = %+v", entries)
		}
	})

	t.Run("no basename column", func(t *testing.T) {
		if _, err := ParseProgressLog([]byte("a,b\n1,2\n")); err == nil {
			t.Error("expected an error")
		}
	})
}

func TestSummarizeProgress(t *testing.T) {
	entries := []ProgressEntry{
		{Status: "published"},
		{Status: "skipped"},
		{Status: "published"},
		{Status: ""},
		{Status: "draft"},
	}
	got := SummarizeProgress(entries)
	want := []StatusCount{
		{"published", 2},
		{"draft", 1},
		{"skipped", 1},
		{"unknown", 1},
	}
	if len(got) != len(want) {
		t.Fatalf("SummarizeProgress() = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
