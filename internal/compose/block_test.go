package compose

import (
	"reflect"
	"strings"
	"testing"
)

const mongoCompose = "services:\n  mongo:\n    image: mongo\nvolumes:\n  mongo_data:\n"

func TestEnsureBlock_BeforeGlobalVolumes(t *testing.T) {
	out, changed := EnsureBlock([]byte(mongoCompose), OntologyBlock())
	if !changed {
		t.Fatal("Expected a change")
	}

	expected := "services:\n  mongo:\n    image: mongo\n" +
		FusekiBlock +
		"volumes:\n  mongo_data:\n  jena_data:\n"
	if string(out) != expected {
		t.Errorf("Unexpected output:\n%s\nexpected:\n%s", out, expected)
	}
}

func TestEnsureBlock_EmptyDocument(t *testing.T) {
	out, changed := EnsureBlock(nil, OntologyBlock())
	if !changed {
		t.Fatal("Expected a change")
	}

	got := string(out)
	if !strings.Contains(got, FusekiBlock+"\nvolumes:\n  jena_data:\n") {
		t.Errorf("Expected block followed by volumes section, got:\n%s", got)
	}
	if strings.Count(got, "volumes:\n  jena_data:") != 1 {
		t.Errorf("Expected exactly one jena_data entry, got:\n%s", got)
	}
}

func TestEnsureBlock_Idempotent(t *testing.T) {
	docs := []string{
		"",
		mongoCompose,
		"services:\n  web:\n    image: nginx\n",
		"version: \"3\"\nvolumes:\n  data:\n",
	}

	for _, doc := range docs {
		once, _ := EnsureBlock([]byte(doc), OntologyBlock())
		twice, changed := EnsureBlock(once, OntologyBlock())
		if changed {
			t.Errorf("second application changed %q", doc)
		}
		if string(once) != string(twice) {
			t.Errorf("second application not byte-identical for %q", doc)
		}
		if n := strings.Count(string(twice), "\n  jena-fuseki:\n"); n != 1 {
			t.Errorf("Expected exactly one header, got %d in:\n%s", n, twice)
		}
	}
}

func TestEnsureBlock_GlobalSectionSynthesis(t *testing.T) {
	doc := "services:\n  web:\n    image: nginx\n"
	out, _ := EnsureBlock([]byte(doc), OntologyBlock())

	topLevelVolumes := 0
	entries := 0
	for _, l := range Parse(string(out)).Lines {
		if l.TopLevel() && l.Content == "volumes:" {
			topLevelVolumes++
		}
		if l.Indent == 2 && l.Content == "jena_data:" {
			entries++
		}
	}
	if topLevelVolumes != 1 || entries != 1 {
		t.Errorf("Expected one volumes key and one entry, got %d and %d:\n%s", topLevelVolumes, entries, out)
	}

	summary, err := Summarize(out)
	if err != nil {
		t.Fatalf("result is not valid YAML: %v", err)
	}
	if !reflect.DeepEqual(summary.Services, []string{"jena-fuseki", "web"}) {
		t.Errorf("Unexpected services: %v", summary.Services)
	}
	if !reflect.DeepEqual(summary.Volumes, []string{"jena_data"}) {
		t.Errorf("Unexpected volumes: %v", summary.Volumes)
	}
}

func TestEnsureBlock_VolumesWithoutServices(t *testing.T) {
	doc := "version: \"3\"\nvolumes:\n  data:\n"
	out, _ := EnsureBlock([]byte(doc), OntologyBlock())

	expected := "version: \"3\"\nservices:\n" + FusekiBlock + "volumes:\n  data:\n  jena_data:\n"
	if string(out) != expected {
		t.Errorf("Unexpected output:\n%s\nexpected:\n%s", out, expected)
	}
}

func TestEnsureBlock_KeepsExistingVolumeEntry(t *testing.T) {
	doc := "services:\n  web:\n    image: nginx\nvolumes:\n  jena_data:\n"
	out, _ := EnsureBlock([]byte(doc), OntologyBlock())

	if n := strings.Count(string(out), "  jena_data:\n"); n != 1 {
		t.Errorf("Expected a single jena_data entry, got %d:\n%s", n, out)
	}
}

func TestEnsureBlock_Isolation(t *testing.T) {
	doc := "services:\n" +
		"  mongo:\n    image: mongo\n    ports:\n      - \"27017:27017\"\n" +
		"  api:\n    build: .\n    depends_on:\n      - mongo\n" +
		"\nvolumes:\n  mongo_data:\n"

	before := bodySizes(Parse(doc))
	out, _ := EnsureBlock([]byte(doc), MinioBlock(StorageConfig{}))
	after := bodySizes(Parse(string(out)))

	for name, size := range before {
		if after[name] != size {
			t.Errorf("service %s body changed from %d to %d lines", name, size, after[name])
		}
	}
	if _, ok := after["minio"]; !ok {
		t.Error("Expected minio to be inserted")
	}
}

// bodySizes counts the body lines of every two-space service header
func bodySizes(doc *Document) map[string]int {
	sizes := map[string]int{}
	current := ""
	for _, l := range doc.Lines {
		switch {
		case l.depth() > 2 && current != "":
			sizes[current]++
		case l.Indent == 2 && !l.Blank():
			current = strings.TrimSuffix(l.Content, ":")
			sizes[current] = 0
		default:
			current = ""
		}
	}
	return sizes
}

func TestRemoveBlock_RestoresDocument(t *testing.T) {
	added, _ := EnsureBlock([]byte(mongoCompose), OntologyBlock())
	out, changed := RemoveBlock(added, "jena-fuseki", "jena_data")
	if !changed {
		t.Fatal("Expected a change")
	}
	if string(out) != mongoCompose {
		t.Errorf("Unexpected output:\n%s\nexpected:\n%s", out, mongoCompose)
	}
}

func TestRemoveBlock_RoundTripSemantics(t *testing.T) {
	docs := []string{
		"",
		mongoCompose,
		"services:\n  web:\n    image: nginx\n",
		"services:\n  web:\n    image: nginx\n\nvolumes:\n  web_data:\n\nnetworks:\n  default:\n",
	}

	for _, doc := range docs {
		added, _ := EnsureBlock([]byte(doc), OntologyBlock())
		removed, _ := RemoveBlock(added, "jena-fuseki", "jena_data")

		if strings.Contains(string(removed), "jena-fuseki:") || strings.Contains(string(removed), "jena_data:") {
			t.Errorf("leftovers after removal:\n%s", removed)
		}
		if doc == "" {
			continue
		}
		want, err := Summarize([]byte(doc))
		if err != nil {
			t.Fatalf("Summarize(%q): %v", doc, err)
		}
		got, err := Summarize(removed)
		if err != nil {
			t.Fatalf("Summarize result: %v\n%s", err, removed)
		}
		if !reflect.DeepEqual(want, got) {
			t.Errorf("Expected %+v, got %+v", want, got)
		}
	}
}

func TestRemoveBlock_Idempotent(t *testing.T) {
	out, changed := RemoveBlock([]byte(mongoCompose), "jena-fuseki", "jena_data")
	if changed {
		t.Error("Expected no change when the block is absent")
	}
	if string(out) != mongoCompose {
		t.Errorf("Document changed:\n%s", out)
	}
}

func TestRemoveBlock_PrefixSharingService(t *testing.T) {
	doc := "services:\n" +
		"  minio:\n    image: minio/minio:latest\n" +
		"  minio-console:\n    image: console\n" +
		"volumes:\n  minio_data:\n  minio_data_backup:\n"

	out, _ := RemoveBlock([]byte(doc), "minio", "minio_data")

	expected := "services:\n" +
		"  minio-console:\n    image: console\n" +
		"volumes:\n  minio_data_backup:\n"
	if string(out) != expected {
		t.Errorf("Unexpected output:\n%s\nexpected:\n%s", out, expected)
	}
}

func TestRemoveBlock_KeepsNestedKeyWithVolumeName(t *testing.T) {
	doc := "services:\n" +
		"  web:\n    image: nginx\n    labels:\n      jena_data: keep\n" +
		"  jena-fuseki:\n    image: stain/jena-fuseki\n" +
		"volumes:\n  jena_data:\n"

	out, _ := RemoveBlock([]byte(doc), "jena-fuseki", "jena_data")

	if !strings.Contains(string(out), "      jena_data: keep\n") {
		t.Errorf("nested key was removed:\n%s", out)
	}
	if strings.Contains(string(out), "jena_data:\n") {
		t.Errorf("global volume entry was kept:\n%s", out)
	}
}

func TestRemoveBlock_WhitespaceOnlyLineInBody(t *testing.T) {
	doc := "services:\n" +
		"  minio:\n    image: x\n    \n    ports:\n      - \"1:1\"\n" +
		"  web:\n    image: y\n"

	out, changed := RemoveBlock([]byte(doc), "minio", "minio_data")
	if !changed {
		t.Fatal("Expected a change")
	}

	expected := "services:\n  web:\n    image: y\n"
	if string(out) != expected {
		t.Errorf("Unexpected output:\n%q\nexpected:\n%q", out, expected)
	}
	if err := Validate(out); err != nil {
		t.Errorf("invalid document after removal: %v", err)
	}
}

func TestRemoveBlock_KeepsUserVolumesHeader(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		expected string
	}{
		{
			name:     "section written by the user",
			doc:      "services:\n  web:\n    image: y\nvolumes:\n  jena_data:\n",
			expected: "services:\n  web:\n    image: y\nvolumes:\n",
		},
		{
			name:     "section followed by another key",
			doc:      "services:\n  web:\n    image: y\n\nvolumes:\n  jena_data:\nnetworks:\n  default:\n",
			expected: "services:\n  web:\n    image: y\n\nvolumes:\nnetworks:\n  default:\n",
		},
		{
			name:     "section appended by the editor",
			doc:      "services:\n  web:\n    image: y\n\nvolumes:\n  jena_data:\n",
			expected: "services:\n  web:\n    image: y\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, changed := RemoveBlock([]byte(tt.doc), "jena-fuseki", "jena_data")
			if !changed {
				t.Fatal("Expected a change")
			}
			if string(out) != tt.expected {
				t.Errorf("Unexpected output:\n%q\nexpected:\n%q", out, tt.expected)
			}
		})
	}
}

func TestRemoveBlock_StopsAtTopLevelKey(t *testing.T) {
	doc := "services:\n  jena-fuseki:\n    image: x\nnetworks:\n  default:\n    driver: bridge\n"
	out, _ := RemoveBlock([]byte(doc), "jena-fuseki", "jena_data")

	expected := "services:\nnetworks:\n  default:\n    driver: bridge\n"
	if string(out) != expected {
		t.Errorf("Unexpected output:\n%s\nexpected:\n%s", out, expected)
	}
}

func TestFeatures_AddThenRemoveInReverseOrder(t *testing.T) {
	data := []byte(mongoCompose)
	data, _ = EnsureBlock(data, OntologyBlock())
	data, _ = EnsureBlock(data, MinioBlock(StorageConfig{}))

	summary, err := Summarize(data)
	if err != nil {
		t.Fatalf("invalid YAML after adding features: %v\n%s", err, data)
	}
	if !reflect.DeepEqual(summary.Services, []string{"jena-fuseki", "minio", "mongo"}) {
		t.Errorf("Unexpected services: %v", summary.Services)
	}
	if !reflect.DeepEqual(summary.Volumes, []string{"jena_data", "minio_data", "mongo_data"}) {
		t.Errorf("Unexpected volumes: %v", summary.Volumes)
	}

	data, _ = RemoveBlock(data, "minio", "minio_data")
	data, _ = RemoveBlock(data, "jena-fuseki", "jena_data")

	if string(data) != mongoCompose {
		t.Errorf("Unexpected output:\n%s\nexpected:\n%s", data, mongoCompose)
	}
}

func TestEnsureBlock_PreservesCRLF(t *testing.T) {
	doc := "services:\r\n  mongo:\r\n    image: mongo\r\nvolumes:\r\n  mongo_data:\r\n"
	out, _ := EnsureBlock([]byte(doc), OntologyBlock())

	if strings.Count(string(out), "\n") != strings.Count(string(out), "\r\n") {
		t.Errorf("mixed line endings in output:\n%q", out)
	}
	removed, _ := RemoveBlock(out, "jena-fuseki", "jena_data")
	if string(removed) != doc {
		t.Errorf("Unexpected output:\n%q\nexpected:\n%q", removed, doc)
	}
}
