// Copyright 2015, David Howden
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tag

// id3v2Tags maps an ID3v2 tag-id to the attribute name it populates, one
// table per major version. Tag-ids not present here accumulate into
// _unknown. Sourced from original_source/new.py's ID3V2_OPTS table,
// extended with further public fields. video_show, video_season,
// video_episode, video_episode_id and sort_video_show have no tag-id in
// any version, so the encoder skips them.
var id3v2TagsV2 = map[string]string{
	"TAL": "album",
	"TP1": "artist",
	"TP2": "album_artist",
	"TCM": "composer",
	"TCO": "genre",
	"TCP": "compilation",
	"TEN": "encoder",
	"TPA": "disk",
	"TRK": "track",
	"TS2": "sort_album_artist",
	"TSA": "sort_album",
	"TSC": "sort_composer",
	"TSP": "sort_artist",
	"TST": "sort_name",
	"TT1": "grouping",
	"TT2": "name",
	"TT3": "video_description",
	"TYE": "year",
	"TBP": "bpm",
	"ULT": "_lyrics",
	"COM": "_comment",
	"PIC": "_image",
	"RVA": "volume",
}

var id3v2TagsV3 = map[string]string{
	"TALB": "album",
	"TPE1": "artist",
	"TPE2": "album_artist",
	"TCOM": "composer",
	"TCON": "genre",
	"TCMP": "compilation",
	"TENC": "encoder",
	"TPOS": "disk",
	"TRCK": "track",
	"TSO2": "sort_album_artist",
	"TSOA": "sort_album",
	"TSOC": "sort_composer",
	"TSOP": "sort_artist",
	"TSOT": "sort_name",
	"TIT1": "grouping",
	"TIT2": "name",
	"TIT3": "video_description",
	"TYER": "year",
	"TBPM": "bpm",
	"USLT": "_lyrics",
	"COMM": "_comment",
	"APIC": "_image",
	"RVAD": "volume",
}

var id3v2TagsV4 = map[string]string{
	"TALB": "album",
	"TPE1": "artist",
	"TPE2": "album_artist",
	"TCOM": "composer",
	"TCON": "genre",
	"TCMP": "compilation",
	"TENC": "encoder",
	"TPOS": "disk",
	"TRCK": "track",
	"TSO2": "sort_album_artist",
	"TSOA": "sort_album",
	"TSOC": "sort_composer",
	"TSOP": "sort_artist",
	"TSOT": "sort_name",
	"TIT1": "grouping",
	"TIT2": "name",
	"TIT3": "video_description",
	"TDRC": "year",
	"TBPM": "bpm",
	"USLT": "_lyrics",
	"COMM": "_comment",
	"APIC": "_image",
	"RVA2": "volume",
}

func id3v2TagsForVersion(version int) map[string]string {
	switch version {
	case 2:
		return id3v2TagsV2
	case 4:
		return id3v2TagsV4
	default:
		return id3v2TagsV3
	}
}

// id3v2AttrToTag is the reverse lookup used while encoding: attribute
// name -> tag-id, one table per version.
func id3v2AttrToTag(version int, attr string) (string, bool) {
	for tag, a := range id3v2TagsForVersion(version) {
		if a == attr {
			return tag, true
		}
	}
	return "", false
}

// id3v2VolumeTag is the tag-id used to encode the VOLUME attribute for a
// given version (RVA for v2, RVAD for v3, RVA2 for v4).
func id3v2VolumeTag(version int) string {
	switch version {
	case 2:
		return "RVA"
	case 4:
		return "RVA2"
	default:
		return "RVAD"
	}
}

// id3v2CommentTag/id3v2LyricsTag are the DICT tag-ids for a version.
func id3v2CommentTag(version int) string {
	if version == 2 {
		return "COM"
	}
	return "COMM"
}

func id3v2LyricsTag(version int) string {
	if version == 2 {
		return "ULT"
	}
	return "USLT"
}

func id3v2ImageTag(version int) string {
	if version == 2 {
		return "PIC"
	}
	return "APIC"
}
