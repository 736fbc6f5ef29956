package match

import (
	"errors"
	"reflect"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		locale  string
		want    any
		wantErr error
	}{
		{"", &Pinyin{}, nil},
		{"zh", &Pinyin{}, nil},
		{"ZH-CN", &Pinyin{}, nil},
		{"en", &Soundex{}, nil},
		{"fr", nil, ErrUnknownLocale},
	}

	for _, tt := range tests {
		t.Run(tt.locale, func(t *testing.T) {
			m, err := New(tt.locale)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("New(%q) error = %v, want %v", tt.locale, err, tt.wantErr)
			}
			if tt.want == nil {
				return
			}
			if reflect.TypeOf(m) != reflect.TypeOf(tt.want) {
				t.Errorf("New(%q) = %T, want %T", tt.locale, m, tt.want)
			}
		})
	}
}

func TestPinyin_PhoneticKey(t *testing.T) {
	p := NewPinyin()

	tests := []struct {
		name      string
		syllables []string
		full      string
		abbrev    string
	}{
		{"基础功能", []string{"ji", "chu", "gong", "neng"}, "jichugongneng", "jcgn"},
		{"Music盒子", []string{"music", "he", "zi"}, "musichezi", "mhz"},
		{"help", []string{"help"}, "help", "h"},
		{"", nil, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := p.PhoneticKey(tt.name)
			if !reflect.DeepEqual(key.Syllables, tt.syllables) {
				t.Errorf("Syllables = %v, want %v", key.Syllables, tt.syllables)
			}
			if key.Full != tt.full {
				t.Errorf("Full = %q, want %q", key.Full, tt.full)
			}
			if key.Abbrev != tt.abbrev {
				t.Errorf("Abbrev = %q, want %q", key.Abbrev, tt.abbrev)
			}
		})
	}
}

func TestKey_Matches(t *testing.T) {
	key := NewPinyin().PhoneticKey("基础功能")

	tests := []struct {
		query string
		want  bool
	}{
		{"jc", true},
		{"JC", true},
		{"j c", true},
		{"jcg", true},
		{"jcgn", true},
		{"jichu", true},
		{"jichugong", true},
		{"jichugongneng", true},
		{"j", false},
		{"ji", false},
		{"jcx", false},
		{"", false},
		{"jichugongnengx", false},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			if got := key.Matches(tt.query); got != tt.want {
				t.Errorf("Matches(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}

	single := NewPinyin().PhoneticKey("帮")
	if !single.Matches("b") || !single.Matches("bang") {
		t.Error("single-syllable key should match its initial and full spelling")
	}
	if (Key{}).Matches("anything") {
		t.Error("zero key should not match")
	}
}

func TestPhoneticMatch(t *testing.T) {
	p := NewPinyin()
	key := p.PhoneticKey("基础功能")

	if !PhoneticMatch(p, key, "基础") {
		t.Error("Han query should match through its transliteration")
	}
	if !PhoneticMatch(p, key, "jc") {
		t.Error("abbreviation should match as typed")
	}
	if PhoneticMatch(p, key, "娱乐") {
		t.Error("unrelated Han query should not match")
	}

	s := NewSoundex()
	skey := s.PhoneticKey("Music Box")
	if skey.Abbrev != "mb" {
		t.Errorf("Soundex Abbrev = %q, want mb", skey.Abbrev)
	}
	if got := s.PhoneticKey("Musik Box").Full; got != skey.Full {
		t.Errorf("PhoneticKey(Musik Box).Full = %q, want %q", got, skey.Full)
	}
	if !PhoneticMatch(s, skey, "musik box") {
		t.Error("misspelled words with equal Soundex codes should match")
	}
	if !PhoneticMatch(s, skey, "mb") {
		t.Error("abbreviation should match as typed")
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  Help  ", "help"},
		{"ＡＢＣ  Def", "abc def"},
		{"１２", "12"},
		{"基础\t功能", "基础 功能"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	if got := Compact(" J C "); got != "jc" {
		t.Errorf("Compact() = %q, want jc", got)
	}
}
