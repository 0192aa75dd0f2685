// Copyright 2015, David Howden
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tag

import (
	"sort"
	"strconv"
)

// AnyItem is the sentinel used by the managed-dict lookups (GetDict,
// GetIDict, DelDict, DelIDict) to mean "any one entry", matching the
// ANYITEM sentinel named in spec.md's glossary.
const AnyItem = -1

// GAPLESS is the content-description iTunes uses inside an ID3v2 COMM
// frame to carry a boolean gapless-playback flag.
const GAPLESS = "iTunPGAP"

// gaplessLanguage is the language code this library stores the synthetic
// GAPLESS comment entry under; iTunes itself is inconsistent about this,
// so a fixed value keeps round-tripping predictable.
const gaplessLanguage = "eng"

// DictKey addresses one entry of a DICT-kind attribute (_comment,
// _lyrics): a language code plus a content description. An empty Key is
// the "no description" entry ((language, None) in spec.md's terms).
type DictKey struct {
	Language string
	Key      string
}

// IDictEntry is one entry of an IDICT-kind attribute (_image): an image
// plus its ID3v2/ISO-14496-12 picture-type byte.
type IDictEntry struct {
	Image       Image
	PictureType byte
}

// fieldSpec describes one public attribute's kind.
type fieldSpec struct {
	name string
	kind Kind
}

// publicFields is the complete public attribute schema from spec.md §3.
// Any attribute name not listed here is TEXT, per spec.
var publicFields = map[string]Kind{
	"album":              KindText,
	"album_artist":       KindText,
	"artist":             KindText,
	"bpm":                KindUint16,
	"comment":            KindText,
	"compilation":        KindBool,
	"composer":           KindText,
	"disk":               KindUint16x2,
	"encoder":            KindText,
	"gapless":            KindBool,
	"genre":              KindGenre,
	"grouping":           KindText,
	"image":              KindImage,
	"lyrics":             KindText,
	"name":               KindText,
	"sort_album":         KindText,
	"sort_album_artist":  KindText,
	"sort_artist":        KindText,
	"sort_composer":      KindText,
	"sort_name":          KindText,
	"sort_video_show":    KindText,
	"track":              KindUint16x2,
	"video_description":  KindText,
	"video_episode":      KindUint32,
	"video_episode_id":   KindText,
	"video_season":       KindUint32,
	"video_show":         KindText,
	"volume":             KindVolume,
	"year":               KindUint16,
}

func fieldKind(name string) Kind {
	if k, ok := publicFields[name]; ok {
		return k
	}
	return KindText
}

// MetadataContainer holds validated attributes for one decoded (or
// in-progress) audio file. It is the glue type every format decoder
// populates and every caller reads through, per spec.md §4.2.
type MetadataContainer struct {
	values  map[string]interface{}
	comment map[DictKey]string
	lyrics  map[DictKey]string
	image   map[string]IDictEntry
	unknown map[string][][]byte

	modified bool
}

// NewMetadataContainer returns an empty container ready for Set calls.
func NewMetadataContainer() *MetadataContainer {
	return &MetadataContainer{values: make(map[string]interface{})}
}

// Modified reports whether any mutating call has succeeded since the last
// Reset (or since creation).
func (c *MetadataContainer) Modified() bool { return c.modified }

// Reset clears the modified flag without altering any field's value.
func (c *MetadataContainer) Reset() { c.modified = false }

// Get returns the current value of a public field, and whether it is set.
func (c *MetadataContainer) Get(name string) (interface{}, bool) {
	switch name {
	case "comment":
		return c.derivedComment()
	case "lyrics":
		return c.derivedLyrics()
	case "gapless":
		return c.derivedGapless()
	case "image":
		return c.derivedImage()
	}
	v, ok := c.values[name]
	return v, ok
}

// Set validates value against name's kind and stores the normalized
// result, or clears the field if validation resolves to "unset".
func (c *MetadataContainer) Set(name string, value interface{}) error {
	switch name {
	case "comment":
		return c.setDerivedComment(value)
	case "lyrics":
		return c.setDerivedLyrics(value)
	case "gapless":
		return c.setDerivedGapless(value)
	case "image":
		return c.setDerivedImage(value)
	}

	kind := fieldKind(name)
	normalized, ok, err := validateKind(name, kind, value)
	if err != nil {
		return err
	}
	if !ok {
		delete(c.values, name)
		c.modified = true
		return nil
	}
	if c.values == nil {
		c.values = make(map[string]interface{})
	}
	c.values[name] = normalized
	c.modified = true
	return nil
}

// Del removes a field entirely.
func (c *MetadataContainer) Del(name string) {
	switch name {
	case "comment":
		c.DelDict("_comment", DictKey{Language: gaplessLanguage})
	case "lyrics":
		c.DelDict("_lyrics", DictKey{Language: gaplessLanguage})
	case "gapless":
		c.DelDict("_comment", DictKey{Language: gaplessLanguage, Key: GAPLESS})
	case "image":
		c.DelIDict(AnyItem)
	default:
		delete(c.values, name)
	}
	c.modified = true
}

func validateKind(field string, kind Kind, value interface{}) (interface{}, bool, error) {
	switch kind {
	case KindText:
		return validateText(field, value)
	case KindUint16:
		return validateUint16(field, value)
	case KindUint32:
		return validateUint32(field, value)
	case KindUint16x2:
		return validateUint16x2(field, value)
	case KindBool:
		return validateBool(field, value)
	case KindGenre:
		return validateGenre(field, value)
	case KindVolume:
		return validateVolume(field, value)
	case KindImage:
		return validateImage(field, value)
	default:
		return validateText(field, value)
	}
}

// IteratePublic returns the names of all currently-set public fields in
// lexicographic order.
func (c *MetadataContainer) IteratePublic() []string {
	names := make([]string, 0, len(publicFields))
	for name := range publicFields {
		if _, ok := c.Get(name); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Equal compares all public fields of two containers. IMAGE compares via
// format+dimensions+512-byte sample; VOLUME compares via one-decimal
// rounded text, so 12.46 and 12.54 are considered equal.
func (c *MetadataContainer) Equal(other *MetadataContainer) bool {
	if other == nil {
		return false
	}
	for name := range publicFields {
		av, aok := c.Get(name)
		bv, bok := other.Get(name)
		if aok != bok {
			return false
		}
		if !aok {
			continue
		}
		if fieldKind(name) == KindImage {
			if !imagesEqual(av.(Image), bv.(Image)) {
				return false
			}
			continue
		}
		if fieldKind(name) == KindVolume {
			if volumeString(av.(float64)) != volumeString(bv.(float64)) {
				return false
			}
			continue
		}
		if av != bv {
			return false
		}
	}
	return true
}

func volumeString(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// ---- Managed dict helpers (§4.2, §4.3) ----

func (c *MetadataContainer) dictFor(attr string) map[DictKey]string {
	switch attr {
	case "_comment":
		return c.comment
	case "_lyrics":
		return c.lyrics
	default:
		return nil
	}
}

func (c *MetadataContainer) setDictFor(attr string, m map[DictKey]string) {
	switch attr {
	case "_comment":
		c.comment = m
	case "_lyrics":
		c.lyrics = m
	}
}

// GetDict looks up one entry of a DICT attribute ("_comment" or
// "_lyrics"). key is either a DictKey or the AnyItem sentinel, in which
// case the entry with the lexicographically smallest key is returned.
func (c *MetadataContainer) GetDict(attr string, key interface{}) (DictKey, string, bool) {
	m := c.dictFor(attr)
	if len(m) == 0 {
		return DictKey{}, "", false
	}
	if ai, ok := key.(int); ok && ai == AnyItem {
		return smallestDictKey(m)
	}
	dk := key.(DictKey)
	v, ok := m[dk]
	return dk, v, ok
}

func smallestDictKey(m map[DictKey]string) (DictKey, string, bool) {
	var best DictKey
	first := true
	for k := range m {
		if first || dictKeyLess(k, best) {
			best = k
			first = false
		}
	}
	if first {
		return DictKey{}, "", false
	}
	return best, m[best], true
}

func dictKeyLess(a, b DictKey) bool {
	if a.Language != b.Language {
		return a.Language < b.Language
	}
	return a.Key < b.Key
}

// SetDict creates the mapping on first insert; an empty-string value is
// still a present entry (DICT kinds keep empty mappings alive so callers
// can populate them incrementally), only Del removes entries.
func (c *MetadataContainer) SetDict(attr string, key DictKey, value string) {
	m := c.dictFor(attr)
	if m == nil {
		m = make(map[DictKey]string)
		c.setDictFor(attr, m)
	}
	m[key] = value
	c.modified = true
}

// DelDict removes one entry (or, with AnyItem, the lexicographically
// smallest entry) and deletes the mapping entirely once it is empty.
func (c *MetadataContainer) DelDict(attr string, key interface{}) bool {
	m := c.dictFor(attr)
	if len(m) == 0 {
		return false
	}
	var dk DictKey
	var ok bool
	if ai, isInt := key.(int); isInt && ai == AnyItem {
		dk, _, ok = smallestDictKey(m)
	} else {
		dk = key.(DictKey)
		_, ok = m[dk]
	}
	if !ok {
		return false
	}
	delete(m, dk)
	if len(m) == 0 {
		c.setDictFor(attr, nil)
	}
	c.modified = true
	return true
}

// ---- Managed IDICT helpers (_image) ----

// GetIDict looks up one _image entry; key is a string description or the
// AnyItem sentinel for "any one entry" (smallest key).
func (c *MetadataContainer) GetIDict(key interface{}) (string, IDictEntry, bool) {
	if len(c.image) == 0 {
		return "", IDictEntry{}, false
	}
	if ai, ok := key.(int); ok && ai == AnyItem {
		var best string
		first := true
		for k := range c.image {
			if first || k < best {
				best = k
				first = false
			}
		}
		return best, c.image[best], true
	}
	k := key.(string)
	v, ok := c.image[k]
	return k, v, ok
}

// SetIDict inserts or replaces one _image entry.
func (c *MetadataContainer) SetIDict(key string, entry IDictEntry) {
	if c.image == nil {
		c.image = make(map[string]IDictEntry)
	}
	c.image[key] = entry
	c.modified = true
}

// DelIDict removes one _image entry (AnyItem removes the smallest key).
func (c *MetadataContainer) DelIDict(key interface{}) bool {
	if len(c.image) == 0 {
		return false
	}
	var k string
	var ok bool
	if ai, isInt := key.(int); isInt && ai == AnyItem {
		k, _, ok = c.GetIDict(AnyItem)
	} else {
		k = key.(string)
		_, ok = c.image[k]
	}
	if !ok {
		return false
	}
	delete(c.image, k)
	if len(c.image) == 0 {
		c.image = nil
	}
	c.modified = true
	return true
}

// UnknownFrames returns the raw payloads preserved for a tag-id that this
// library's ID3v2 tables do not recognise. ID3v2 decode always records
// them; the encoder writes them back only when preserveUnknown is set.
func (c *MetadataContainer) UnknownFrames(tagID string) [][]byte {
	return c.unknown[tagID]
}

// addUnknownFrame appends a raw payload under an unrecognised tag-id.
func (c *MetadataContainer) addUnknownFrame(tagID string, payload []byte) {
	if c.unknown == nil {
		c.unknown = make(map[string][][]byte)
	}
	c.unknown[tagID] = append(c.unknown[tagID], payload)
}

// UnknownTagIDs lists the tag-ids preserved in _unknown, sorted.
func (c *MetadataContainer) UnknownTagIDs() []string {
	ids := make([]string, 0, len(c.unknown))
	for id := range c.unknown {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ---- derived views: comment, lyrics, gapless, image ----

func (c *MetadataContainer) derivedComment() (interface{}, bool) {
	_, v, ok := c.GetDict("_comment", DictKey{Language: gaplessLanguage})
	return v, ok
}

func (c *MetadataContainer) setDerivedComment(value interface{}) error {
	s, ok, err := validateText("comment", value)
	if err != nil {
		return err
	}
	if !ok {
		c.DelDict("_comment", DictKey{Language: gaplessLanguage})
		return nil
	}
	c.SetDict("_comment", DictKey{Language: gaplessLanguage}, s)
	return nil
}

func (c *MetadataContainer) derivedLyrics() (interface{}, bool) {
	_, v, ok := c.GetDict("_lyrics", DictKey{Language: gaplessLanguage})
	return v, ok
}

func (c *MetadataContainer) setDerivedLyrics(value interface{}) error {
	s, ok, err := validateText("lyrics", value)
	if err != nil {
		return err
	}
	if !ok {
		c.DelDict("_lyrics", DictKey{Language: gaplessLanguage})
		return nil
	}
	c.SetDict("_lyrics", DictKey{Language: gaplessLanguage}, s)
	return nil
}

func (c *MetadataContainer) derivedGapless() (interface{}, bool) {
	_, v, ok := c.GetDict("_comment", DictKey{Language: gaplessLanguage, Key: GAPLESS})
	if !ok {
		return nil, false
	}
	b, present, err := validateBool("gapless", v)
	if err != nil || !present {
		return nil, false
	}
	return b, true
}

func (c *MetadataContainer) setDerivedGapless(value interface{}) error {
	b, ok, err := validateBool("gapless", value)
	if err != nil {
		return err
	}
	if !ok {
		c.DelDict("_comment", DictKey{Language: gaplessLanguage, Key: GAPLESS})
		return nil
	}
	text := "0"
	if b {
		text = "1"
	}
	c.SetDict("_comment", DictKey{Language: gaplessLanguage, Key: GAPLESS}, text)
	return nil
}

func (c *MetadataContainer) derivedImage() (interface{}, bool) {
	_, entry, ok := c.GetIDict(AnyItem)
	if !ok {
		return nil, false
	}
	return entry.Image, true
}

func (c *MetadataContainer) setDerivedImage(value interface{}) error {
	img, ok, err := validateImage("image", value)
	if err != nil {
		return err
	}
	if !ok {
		c.DelIDict(AnyItem)
		return nil
	}
	c.SetIDict("", IDictEntry{Image: img, PictureType: 3})
	return nil
}
