package service

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
)

// canonicalField is a portal identifier carried by a JotForm submission.
type canonicalField int

const (
	fieldParticipant canonicalField = iota
	fieldForm
)

// webhookFieldAliases maps lower-cased submission field names to the
// identifier they carry, in priority order. JotForm's own "formID" is the
// JotForm form id and is deliberately absent.
var webhookFieldAliases = map[canonicalField][]string{
	fieldParticipant: {"participant_id", "participantid", "pid"},
	fieldForm:        {"form_id", "fid", "portal_form_id"},
}

// rawRequestField holds the JSON encoded answers JotForm posts alongside
// the flat fields.
const rawRequestField = "rawrequest"

// questionPrefix matches the "q12_" prefix JotForm puts on answer keys.
var questionPrefix = regexp.MustCompile(`^q\d+_`)

// WebhookIDs identifiers resolved from a submission. Values are raw text;
// an empty string means the field was not present.
type WebhookIDs struct {
	ParticipantID string
	FormID        string
}

// ResolveWebhookFields extracts the portal identifiers from submitted
// fields. Direct fields take precedence over answers found in rawRequest.
func ResolveWebhookFields(fields map[string][]string) WebhookIDs {
	direct := make(map[string]string, len(fields))
	for _, k := range sortedKeys(fields) {
		vs := fields[k]
		key := strings.ToLower(strings.TrimSpace(k))
		if _, seen := direct[key]; seen {
			continue
		}
		for _, v := range vs {
			if v = strings.TrimSpace(v); v != "" {
				direct[key] = v
				break
			}
		}
	}

	var raw map[string]string
	if body, ok := direct[rawRequestField]; ok {
		raw = decodeRawRequest(body)
	}

	return WebhookIDs{
		ParticipantID: lookupField(fieldParticipant, direct, raw),
		FormID:        lookupField(fieldForm, direct, raw),
	}
}

func lookupField(field canonicalField, sources ...map[string]string) string {
	for _, src := range sources {
		for _, alias := range webhookFieldAliases[field] {
			if v := src[alias]; v != "" {
				return v
			}
		}
	}
	return ""
}

// decodeRawRequest flattens rawRequest into lower-cased keys without the
// question prefix. Only scalar answers are kept.
func decodeRawRequest(body string) map[string]string {
	var answers map[string]interface{}
	if err := sonic.UnmarshalString(body, &answers); err != nil {
		return nil
	}
	out := make(map[string]string, len(answers))
	for _, k := range sortedKeys(answers) {
		v := answers[k]
		key := questionPrefix.ReplaceAllString(strings.ToLower(strings.TrimSpace(k)), "")
		var s string
		switch val := v.(type) {
		case string:
			s = strings.TrimSpace(val)
		case float64:
			s = strconv.FormatFloat(val, 'f', -1, 64)
		default:
			continue
		}
		if s == "" {
			continue
		}
		if _, seen := out[key]; !seen {
			out[key] = s
		}
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
