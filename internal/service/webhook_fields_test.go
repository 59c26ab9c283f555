package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveWebhookFields(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string][]string
		want   WebhookIDs
	}{
		{
			name:   "canonical names",
			fields: map[string][]string{"participant_id": {"3"}, "form_id": {"9"}},
			want:   WebhookIDs{ParticipantID: "3", FormID: "9"},
		},
		{
			name:   "case insensitive aliases",
			fields: map[string][]string{"ParticipantID": {"3"}, "FID": {"9"}},
			want:   WebhookIDs{ParticipantID: "3", FormID: "9"},
		},
		{
			name:   "jotform formID is not the portal form",
			fields: map[string][]string{"pid": {"3"}, "formID": {"241234567890"}},
			want:   WebhookIDs{ParticipantID: "3"},
		},
		{
			name:   "alias priority",
			fields: map[string][]string{"pid": {"4"}, "participant_id": {"3"}, "portal_form_id": {"8"}, "form_id": {"9"}},
			want:   WebhookIDs{ParticipantID: "3", FormID: "9"},
		},
		{
			name:   "blank values are ignored",
			fields: map[string][]string{"participant_id": {"  "}, "pid": {"5"}, "form_id": {"", "9"}},
			want:   WebhookIDs{ParticipantID: "5", FormID: "9"},
		},
		{
			name: "raw request with question prefixes",
			fields: map[string][]string{
				"formID":     {"241234567890"},
				"rawRequest": {`{"q3_participant_id":"12","q4_form_id":7,"q5_name":{"first":"Jane"}}`},
			},
			want: WebhookIDs{ParticipantID: "12", FormID: "7"},
		},
		{
			name: "direct fields win over raw request",
			fields: map[string][]string{
				"pid":        {"1"},
				"rawRequest": {`{"q3_pid":"12","q4_fid":"7"}`},
			},
			want: WebhookIDs{ParticipantID: "1", FormID: "7"},
		},
		{
			name:   "broken raw request",
			fields: map[string][]string{"rawRequest": {`{not json`}},
			want:   WebhookIDs{},
		},
		{
			name:   "nothing",
			fields: nil,
			want:   WebhookIDs{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveWebhookFields(tt.fields))
		})
	}
}
