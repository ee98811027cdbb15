// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package ykq368

import (
	"bytes"
	"errors"
	"testing"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name  string
		instr SendInstr
		want  []byte
	}{
		{
			name:  "reference vector",
			instr: SendInstr{Send: SendAll, Skip: 0, Repeat: 1, Preamble: 0x0007, Data: 0x312345678},
			want:  []byte{0xE0, 0x01, 0x00, 0x3B, 0x12, 0x34, 0x56, 0x78},
		},
		{
			name:  "data only",
			instr: SendInstr{Send: SendData, Skip: 3, Repeat: 5, Data: 0x7FFFFFFFF},
			want:  []byte{0xA3, 0x05, 0x00, 0x07, 0xFF, 0xFF, 0xFF, 0xFF},
		},
		{
			name:  "preamble only",
			instr: SendInstr{Send: SendPreamble, Skip: 31, Repeat: 0, Preamble: 0x1FFF},
			want:  []byte{0xDF, 0x00, 0xFF, 0xF8, 0x00, 0x00, 0x00, 0x00},
		},
		{
			name:  "zero instruction",
			instr: SendInstr{},
			want:  []byte{0xC0, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
		},
		{
			name:  "skip truncated to 5 bits",
			instr: SendInstr{Send: SendAll, Skip: 0x25},
			want:  []byte{0xE5, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
		},
		{
			name:  "data truncated to 35 bits",
			instr: SendInstr{Send: SendData, Data: 0x8_0000_0001},
			want:  []byte{0xA0, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01},
		},
		{
			name:  "preamble high bits lost",
			instr: SendInstr{Send: SendAll, Preamble: 0xE007},
			want:  []byte{0xE0, 0x00, 0x00, 0x38, 0x00, 0x00, 0x00, 0x00},
		},
		{
			name:  "unknown send parts has no mode tag",
			instr: SendInstr{Send: SendParts(7), Skip: 1},
			want:  []byte{0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Encode(tt.instr)
			if !bytes.Equal(got[:], tt.want) {
				t.Errorf("Encode() = % X, want % X", got[:], tt.want)
			}
			if tt.instr.Command() != got {
				t.Errorf("SendInstr.Command() differs from Encode()")
			}
		})
	}
}

func TestEncode_Deterministic(t *testing.T) {
	instr := SendInstr{Send: SendAll, Skip: 2, Repeat: 3, Preamble: 0x0123, Data: 0x123456789}
	first := Encode(instr)
	for i := 0; i < 100; i++ {
		if got := Encode(instr); got != first {
			t.Fatalf("Encode() not deterministic: %v != %v", got, first)
		}
	}
}

func TestEncode_HeaderRoundTrip(t *testing.T) {
	for _, parts := range []SendParts{SendPreamble, SendData, SendAll} {
		for skip := uint8(0); skip <= SkipMask; skip++ {
			cmd := Encode(SendInstr{Send: parts, Skip: skip})

			gotParts, gotSkip, ok := cmd.Header()
			if !ok {
				t.Fatalf("Header() not ok for %v skip %d (byte 0x%02X)", parts, skip, cmd[0])
			}
			if gotParts != parts {
				t.Errorf("Header() parts = %v, want %v", gotParts, parts)
			}
			if gotSkip != skip {
				t.Errorf("Header() skip = %d, want %d", gotSkip, skip)
			}
		}
	}
}

func TestCommand_Header_UnknownTag(t *testing.T) {
	cmd := Command{0x45}
	_, skip, ok := cmd.Header()
	if ok {
		t.Error("Header() should not be ok for tag 0b010")
	}
	if skip != 5 {
		t.Errorf("Header() skip = %d, want 5", skip)
	}
}

func TestEncode_FieldLaws(t *testing.T) {
	rng := newFuzzRng(t)
	rounds := getFuzzRounds()

	for i := 0; i < rounds; i++ {
		instr := SendInstr{
			Send:     SendParts(rng.Intn(3)),
			Skip:     uint8(rng.Intn(256)),
			Repeat:   uint8(rng.Intn(256)),
			Preamble: Preamble(rng.Intn(1 << 16)),
			Data:     Data(rng.Uint64()),
		}
		cmd := Encode(instr)

		if cmd.Repeat() != instr.Repeat {
			t.Fatalf("round %d: repeat = %d, want %d", i, cmd.Repeat(), instr.Repeat)
		}
		if cmd.Data() != instr.Data&DataMask {
			t.Fatalf("round %d: data = %v, want %v", i, cmd.Data(), instr.Data&DataMask)
		}
		wantPreamble := instr.Preamble & (1<<PreambleBits - 1)
		if cmd.Preamble() != wantPreamble {
			t.Fatalf("round %d: preamble = %v, want %v", i, cmd.Preamble(), wantPreamble)
		}
		if _, skip, _ := cmd.Header(); skip != instr.Skip&SkipMask {
			t.Fatalf("round %d: skip = %d, want %d", i, skip, instr.Skip&SkipMask)
		}

		// Bits outside the field widths must not affect the command
		masked := instr
		masked.Skip &= SkipMask
		masked.Data &= DataMask
		masked.Preamble = wantPreamble
		if Encode(masked) != cmd {
			t.Fatalf("round %d: out-of-range bits leaked into %v", i, cmd)
		}
	}
}

func TestParseCommand(t *testing.T) {
	want := Command{0xE0, 0x01, 0x00, 0x3B, 0x12, 0x34, 0x56, 0x78}
	got, err := ParseCommand(want.Bytes())
	if err != nil {
		t.Fatalf("ParseCommand() error: %v", err)
	}
	if got != want {
		t.Errorf("ParseCommand() = %v, want %v", got, want)
	}

	for _, n := range []int{0, 7, 9} {
		if _, err := ParseCommand(make([]byte, n)); !errors.Is(err, ErrCommandLength) {
			t.Errorf("ParseCommand(%d bytes) error = %v, want ErrCommandLength", n, err)
		}
	}
}

func TestCommand_Bytes_IsCopy(t *testing.T) {
	cmd := Command{1, 2, 3, 4, 5, 6, 7, 8}
	b := cmd.Bytes()
	b[0] = 0xFF
	if cmd[0] != 1 {
		t.Error("Bytes() should return a copy")
	}
}

func TestCommand_IsZero(t *testing.T) {
	if !(Command{}).IsZero() {
		t.Error("zero command should report IsZero")
	}
	if Encode(SendInstr{}).IsZero() {
		t.Error("encoded zero instruction carries a mode tag and is not the exit sentinel")
	}
}

func TestSendInstr_Validate(t *testing.T) {
	tests := []struct {
		name    string
		instr   SendInstr
		wantErr bool
	}{
		{"reference", SendInstr{Send: SendAll, Repeat: 1, Preamble: 0x0007, Data: 0x312345678}, false},
		{"max fields", SendInstr{Send: SendData, Skip: SkipMask, Preamble: 0x1FFF, Data: DataMask}, false},
		{"skip too wide", SendInstr{Skip: 32}, true},
		{"preamble too wide", SendInstr{Preamble: 0x2000}, true},
		{"data too wide", SendInstr{Data: DataMask + 1}, true},
		{"unknown send parts", SendInstr{Send: SendParts(3)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.instr.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrFieldRange) {
					t.Errorf("Validate() error = %v, want ErrFieldRange", err)
				}
			} else if err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
		})
	}
}

func TestParseSendParts(t *testing.T) {
	tests := []struct {
		in      string
		want    SendParts
		wantErr bool
	}{
		{"preamble", SendPreamble, false},
		{"data", SendData, false},
		{"all", SendAll, false},
		{" ALL ", SendAll, false},
		{"both", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSendParts(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSendParts(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseSendParts(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestSendInstr_String(t *testing.T) {
	instr := SendInstr{Send: SendAll, Repeat: 1, Preamble: 0x0007, Data: 0x312345678}
	want := "SendInstr{send: all, skip: 0, preamble: 0007, data: 312345678, repeat: 1}"
	if got := instr.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
