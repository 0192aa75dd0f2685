// Copyright 2015, David Howden
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tag

import (
	"fmt"
	"regexp"
	"strconv"
)

// genreTable is the fixed 256-element genre table used by ID3v1, ID3v2 and
// MPEG-4 "gnre" atoms. Indices 0-147 are the classic ID3v1 list as extended
// by Winamp; indices 148-255 have no name and resolve to unset.
var genreTable = [256]string{
	"Blues", "Classic Rock", "Country", "Dance", "Disco", "Funk", "Grunge",
	"Hip-Hop", "Jazz", "Metal", "New Age", "Oldies", "Other", "Pop", "R&B",
	"Rap", "Reggae", "Rock", "Techno", "Industrial", "Alternative", "Ska",
	"Death Metal", "Pranks", "Soundtrack", "Euro-Techno", "Ambient",
	"Trip-Hop", "Vocal", "Jazz+Funk", "Fusion", "Trance", "Classical",
	"Instrumental", "Acid", "House", "Game", "Sound Clip", "Gospel",
	"Noise", "AlternRock", "Bass", "Soul", "Punk", "Space", "Meditative",
	"Instrumental Pop", "Instrumental Rock", "Ethnic", "Gothic", "Darkwave",
	"Techno-Industrial", "Electronic", "Pop-Folk", "Eurodance", "Dream",
	"Southern Rock", "Comedy", "Cult", "Gangsta", "Top 40",
	"Christian Rap", "Pop/Funk", "Jungle", "Native American", "Cabaret",
	"New Wave", "Psychedelic", "Rave", "Showtunes", "Trailer", "Lo-Fi",
	"Tribal", "Acid Punk", "Acid Jazz", "Polka", "Retro", "Musical",
	"Rock & Roll", "Hard Rock", "Folk", "Folk-Rock", "National Folk",
	"Swing", "Fast Fusion", "Bebob", "Latin", "Revival", "Celtic",
	"Bluegrass", "Avantgarde", "Gothic Rock", "Progressive Rock",
	"Psychedelic Rock", "Symphonic Rock", "Slow Rock", "Big Band",
	"Chorus", "Easy Listening", "Acoustic", "Humour", "Speech", "Chanson",
	"Opera", "Chamber Music", "Sonata", "Symphony", "Booty Bass", "Primus",
	"Porn Groove", "Satire", "Slow Jam", "Club", "Tango", "Samba",
	"Folklore", "Ballad", "Power Ballad", "Rhythmic Soul", "Freestyle",
	"Duet", "Punk Rock", "Drum Solo", "A Cappella", "Euro-House",
	"Dance Hall", "Goa", "Drum & Bass", "Club-House", "Hardcore", "Terror",
	"Indie", "BritPop", "Afro-Punk", "Polsk Punk", "Beat",
	"Christian Gangsta Rap", "Heavy Metal", "Black Metal", "Crossover",
	"Contemporary Christian", "Christian Rock", "Merengue", "Salsa",
	"Thrash Metal", "Anime", "JPop", "Synthpop",
	// 148-255: no name.
}

var genreParenIndex = regexp.MustCompile(`^\((\d+)\)$`)

// genreByIndex resolves a genre table index in [0,255] to its name. A
// nameless index (148-255) or 0xFF returns ok=false (unset).
func genreByIndex(i int) (string, bool) {
	if i < 0 || i > 255 {
		return "", false
	}
	name := genreTable[i]
	return name, name != ""
}

// genreIndexByName performs the reverse lookup, used when encoding a
// GENRE attribute back into a table-indexed field (the ID3v1 genre byte).
func genreIndexByName(name string) (int, bool) {
	for i, n := range genreTable {
		if n == name {
			return i, true
		}
	}
	return 0, false
}

// resolveGenreText implements the ID3v2/VorbisComment convention of
// encoding a table index as the literal text "(N)"; anything else is kept
// as a literal genre string.
func resolveGenreText(s string) string {
	if m := genreParenIndex.FindStringSubmatch(s); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			if name, ok := genreByIndex(n); ok {
				return name
			}
		}
	}
	return s
}

func validateGenre(field string, value interface{}) (string, bool, error) {
	switch v := value.(type) {
	case string:
		s, ok, err := validateText(field, v)
		if !ok || err != nil {
			return "", ok, err
		}
		return resolveGenreText(s), true, nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		n := toInt64(v)
		if n < 0 || n > 255 {
			return "", false, newValidationError(field, fmt.Errorf("genre index %d out of range [0,255]", n))
		}
		name, ok := genreByIndex(int(n))
		if !ok {
			return "", false, nil
		}
		return name, true, nil
	default:
		return validateGenre(field, fmt.Sprintf("%v", v))
	}
}
