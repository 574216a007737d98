package importer

import "testing"

func TestDecodeTextUTF8(t *testing.T) {
	in := []byte("Nº CONTRATO,SITUAÇÃO\n001/2023,VIGENTE")
	if got := DecodeText(in); got != string(in) {
		t.Errorf("Expected UTF-8 passthrough, got %q", got)
	}
}

func TestDecodeTextStripsBOM(t *testing.T) {
	in := append([]byte{0xEF, 0xBB, 0xBF}, []byte("a,b")...)
	if got := DecodeText(in); got != "a,b" {
		t.Errorf("Expected BOM stripped, got %q", got)
	}
}

func TestDecodeTextWindows1252(t *testing.T) {
	// "VIGÊNCIA" and "SERVIÇOS" as a legacy Windows-1252 export
	in := []byte{'V', 'I', 'G', 0xCA, 'N', 'C', 'I', 'A', ',', 'S', 'E', 'R', 'V', 'I', 0xC7, 'O', 'S'}

	got := DecodeText(in)
	if got != "VIGÊNCIA,SERVIÇOS" {
		t.Errorf("Expected Windows-1252 transcoding, got %q", got)
	}
}

func TestDecodeTextEmpty(t *testing.T) {
	if got := DecodeText(nil); got != "" {
		t.Errorf("Expected empty string, got %q", got)
	}
}
