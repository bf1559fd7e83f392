// Package objfile reads named sections out of compiled binaries. It handles
// the three executable containers the stdlib can parse (ELF, Mach-O, PE), so
// section presence and contents can be decided without external tooling.
package objfile

import (
	"debug/elf"
	"debug/macho"
	"debug/pe"
	"fmt"
)

// SectionStat reports whether the binary at path contains a section with the
// given name and, if so, its size in bytes. An unrecognized or unreadable
// binary is an error: presence cannot be decided for it.
func SectionStat(path, name string) (int64, bool, error) {
	if f, err := elf.Open(path); err == nil {
		defer f.Close()
		if s := f.Section(name); s != nil {
			return int64(s.Size), true, nil
		}
		return 0, false, nil
	}

	if f, err := macho.Open(path); err == nil {
		defer f.Close()
		if s := machoSection(f, name); s != nil {
			return int64(s.Size), true, nil
		}
		return 0, false, nil
	}

	if f, err := pe.Open(path); err == nil {
		defer f.Close()
		if s := f.Section(name); s != nil {
			return int64(s.Size), true, nil
		}
		return 0, false, nil
	}

	return 0, false, fmt.Errorf("%s is not a recognized ELF, Mach-O, or PE binary", path)
}

// SectionData returns the raw bytes of the named section, or exists=false
// when the binary has no such section.
func SectionData(path, name string) ([]byte, bool, error) {
	if f, err := elf.Open(path); err == nil {
		defer f.Close()
		s := f.Section(name)
		if s == nil {
			return nil, false, nil
		}
		data, err := s.Data()
		if err != nil {
			return nil, true, fmt.Errorf("read section %s from %s: %w", name, path, err)
		}
		return data, true, nil
	}

	if f, err := macho.Open(path); err == nil {
		defer f.Close()
		s := machoSection(f, name)
		if s == nil {
			return nil, false, nil
		}
		data, err := s.Data()
		if err != nil {
			return nil, true, fmt.Errorf("read section %s from %s: %w", name, path, err)
		}
		return data, true, nil
	}

	if f, err := pe.Open(path); err == nil {
		defer f.Close()
		s := f.Section(name)
		if s == nil {
			return nil, false, nil
		}
		data, err := s.Data()
		if err != nil {
			return nil, true, fmt.Errorf("read section %s from %s: %w", name, path, err)
		}
		// PE section sizes are padded to the file alignment; VirtualSize is
		// the real payload length.
		if int(s.VirtualSize) < len(data) {
			data = data[:s.VirtualSize]
		}
		return data, true, nil
	}

	return nil, false, fmt.Errorf("%s is not a recognized ELF, Mach-O, or PE binary", path)
}

// machoSection finds a Mach-O section by name across all segments.
func machoSection(f *macho.File, name string) *macho.Section {
	for _, s := range f.Sections {
		if s.Name == name {
			return s
		}
	}
	return nil
}
