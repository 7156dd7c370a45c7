package kb

import (
	"fmt"
	"strings"
)

// CanonicalVideoBase is the short-link prefix used in section headers.
const CanonicalVideoBase = "https://youtu.be/"

// rulesHeader labels the normativa section appended after all videos.
const rulesHeader = "=== NORMATIVA ==="

// SystemInstruction is the coach persona plus the priority-of-sources
// policy: videos rule technique questions, the normativa section rules
// regulation questions, and general golf knowledge is a disclosed
// fallback.
const SystemInstruction = "Ets un entrenador de golf i Pitch&Putt i respons a totes les preguntes " +
	"i dubtes de com executar els cops i quina tecnica emprar per conseguir embocar " +
	"la bola en el green. Per aixo has de basarte en les explicacions de les fonts " +
	"carregades en forma de videos. Quan responguis sobre tecnica, fes referencia al " +
	"contingut dels videos proporcionats com a font prioritaria de coneixement. " +
	"Per a preguntes de reglament o normativa de Pitch&Putt, la seccio NORMATIVA es " +
	"la font autoritzada. Si la pregunta no esta coberta ni pels videos ni per la " +
	"normativa, pots usar el teu coneixement general de golf pero indica-ho clarament."

// VideoURL returns the canonical short link for a video id.
func VideoURL(id string) string {
	return CanonicalVideoBase + id
}

// Assemble merges fetched transcripts and the optional rules text into
// a knowledge asset. Pure and deterministic: same inputs yield the same
// asset byte for byte.
//
// Only records with status ok are included, in the configured video
// order (never fetch or map-iteration order). A non-empty rules text is
// always the final section. All content is treated as opaque text —
// nothing here interprets or escapes it.
func Assemble(videos []VideoSource, records map[string]TranscriptRecord, rules string) Asset {
	parts := make([]string, 0, len(videos)+1)
	for _, v := range videos {
		rec, ok := records[v.ID]
		if !ok || rec.Status != StatusOK {
			continue
		}
		parts = append(parts, fmt.Sprintf("=== %s (%s) ===\n%s", v.Label, VideoURL(v.ID), rec.Text))
	}
	if rules != "" {
		parts = append(parts, rulesHeader+"\n"+rules)
	}
	return Asset{
		Knowledge:         strings.Join(parts, "\n\n"),
		SystemInstruction: SystemInstruction,
	}
}
