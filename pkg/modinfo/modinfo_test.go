// SPDX-License-Identifier: MPL-2.0

package modinfo

import (
	"errors"
	"testing"
	"time"
)

func TestModName_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		value   ModName
		wantErr bool
	}{
		{name: "plain", value: "SelacoCollectiblesNative"},
		{name: "empty", value: "", wantErr: true},
		{name: "whitespace", value: "   ", wantErr: true},
		{name: "slash", value: "a/b", wantErr: true},
		{name: "backslash", value: `a\b`, wantErr: true},
		{name: "padded", value: " SCM", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.value.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("ModName(%q).Validate() error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidModName) {
				t.Errorf("error does not wrap ErrInvalidModName: %v", err)
			}
		})
	}
}

func TestVersion_Validate(t *testing.T) {
	t.Parallel()

	for _, v := range []Version{"4.0", "4", "10.2.33"} {
		if err := v.Validate(); err != nil {
			t.Errorf("Version(%q).Validate() = %v, want nil", v, err)
		}
	}
	for _, v := range []Version{"", "v4.0", "4.", "4..0", "four"} {
		err := v.Validate()
		if !errors.Is(err, ErrInvalidVersion) {
			t.Errorf("Version(%q).Validate() = %v, want ErrInvalidVersion", v, err)
		}
	}
}

func TestArchiveExt_Validate(t *testing.T) {
	t.Parallel()

	for _, x := range []ArchiveExt{"", ExtPK3, ExtZip} {
		if err := x.Validate(); err != nil {
			t.Errorf("ArchiveExt(%q).Validate() = %v", x, err)
		}
	}
	if err := ArchiveExt("rar").Validate(); !errors.Is(err, ErrInvalidArchiveExt) {
		t.Errorf("ArchiveExt(rar).Validate() = %v, want ErrInvalidArchiveExt", err)
	}
}

func TestInfo_ArchiveNameDeterministic(t *testing.T) {
	t.Parallel()

	a := Info{Name: "SelacoCollectiblesNative", Version: "4.0", Timestamp: time.Unix(0, 0)}
	b := Info{Name: "SelacoCollectiblesNative", Version: "4.0", Timestamp: time.Now(), TargetDir: "/elsewhere"}

	if a.ArchiveName() != "SelacoCollectiblesNative_v4.0.pk3" {
		t.Errorf("ArchiveName() = %q", a.ArchiveName())
	}
	if a.ArchiveName() != b.ArchiveName() {
		t.Errorf("ArchiveName() differs for equal name/version: %q vs %q", a.ArchiveName(), b.ArchiveName())
	}

	b.Ext = ExtZip
	if b.ArchiveName() != "SelacoCollectiblesNative_v4.0.zip" {
		t.Errorf("ArchiveName() with zip ext = %q", b.ArchiveName())
	}
}

func TestInfo_ValidateCollectsAllFields(t *testing.T) {
	t.Parallel()

	err := Info{Name: "", Version: "x", Ext: "tar"}.Validate()
	if !errors.Is(err, ErrInvalidInfo) {
		t.Fatalf("Validate() = %v, want ErrInvalidInfo", err)
	}
	var infoErr *InvalidInfoError
	if !errors.As(err, &infoErr) {
		t.Fatalf("Validate() error is not *InvalidInfoError")
	}
	if len(infoErr.FieldErrors) != 4 {
		t.Errorf("got %d field errors, want 4: %v", len(infoErr.FieldErrors), infoErr.FieldErrors)
	}
	for _, sentinel := range []error{ErrInvalidModName, ErrInvalidVersion, ErrInvalidArchiveExt} {
		if !errors.Is(err, sentinel) {
			t.Errorf("errors.Is(Validate(), %v) = false", sentinel)
		}
	}
}

func TestInfo_ValidateSingleFieldSentinel(t *testing.T) {
	t.Parallel()

	err := Info{Name: "SelacoCollectiblesNative", Version: "four", ScriptPath: "collectibles_native.zs"}.Validate()
	if !errors.Is(err, ErrInvalidVersion) {
		t.Errorf("Validate() = %v, want ErrInvalidVersion", err)
	}
	if errors.Is(err, ErrInvalidModName) {
		t.Errorf("Validate() = %v, should not match ErrInvalidModName", err)
	}
}

func TestInfo_ScriptNameAndTimestamp(t *testing.T) {
	t.Parallel()

	info := Info{
		ScriptPath: "src/collectibles_native.zs",
		Timestamp:  time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC),
	}
	if info.ScriptName() != "collectibles_native.zs" {
		t.Errorf("ScriptName() = %q", info.ScriptName())
	}
	if info.BuiltAt() != "2025-03-04 05:06:07" {
		t.Errorf("BuiltAt() = %q", info.BuiltAt())
	}
}
