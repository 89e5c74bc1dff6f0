package itip

import (
	"strings"
	"testing"
	"time"

	"github.com/emersion/go-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvent_Method(t *testing.T) {
	t.Run("returns method", func(t *testing.T) {
		comp := ical.NewComponent(ical.CompEvent)
		comp.Props.SetText(ical.PropMethod, "TEST")
		assert.Equal(t, "TEST", NewEvent(comp).Method())
	})

	t.Run("defaults to REQUEST", func(t *testing.T) {
		comp := ical.NewComponent(ical.CompEvent)
		assert.Equal(t, MethodRequest, NewEvent(comp).Method())
	})

	t.Run("nil component", func(t *testing.T) {
		assert.Equal(t, MethodRequest, NewEvent(nil).Method())
	})
}

func TestEvent_IsSnapshot(t *testing.T) {
	comp := ical.NewComponent(ical.CompEvent)
	comp.Props.SetText(ical.PropSummary, "Before")

	ev := NewEvent(comp)
	comp.Props.SetText(ical.PropSummary, "After")
	assert.Equal(t, "Before", ev.Summary())

	// copies handed out do not write through either
	prop := ev.Attribute(ical.PropSummary)
	require.NotNil(t, prop)
	prop.Value = "Changed"
	assert.Equal(t, "Before", ev.Summary())
}

func TestEvent_RequiredFields(t *testing.T) {
	ev := NewEvent(ical.NewComponent(ical.CompEvent))

	_, err := ev.UID()
	assert.ErrorIs(t, err, ErrMissingRequiredField)
	_, err = ev.Organizer()
	assert.ErrorIs(t, err, ErrMissingRequiredField)

	ev.SetAttribute(ical.PropUID, "1", nil)
	ev.SetAttribute(ical.PropOrganizer, "mailto:orga@example.org", ical.Params{
		ical.ParamCommonName: []string{"Orga"},
	})

	uid, err := ev.UID()
	require.NoError(t, err)
	assert.Equal(t, "1", uid)

	org, err := ev.Organizer()
	require.NoError(t, err)
	assert.Equal(t, "mailto:orga@example.org", org)
	assert.Equal(t, "Orga", ev.Attribute(ical.PropOrganizer).Params.Get(ical.ParamCommonName))
}

func TestEvent_OptionalFields(t *testing.T) {
	start := time.Unix(1222419600, 0).UTC()
	end := time.Unix(1222423200, 0).UTC()

	comp := ical.NewComponent(ical.CompEvent)
	comp.Props.SetDateTime(ical.PropDateTimeStart, start)
	comp.Props.SetDateTime(ical.PropDateTimeEnd, end)
	ev := NewEvent(comp)

	got, ok := ev.Start().Get()
	require.True(t, ok)
	assert.True(t, start.Equal(got))

	got, ok = ev.End().Get()
	require.True(t, ok)
	assert.True(t, end.Equal(got))

	assert.True(t, ev.Duration().IsAbsent())
	assert.True(t, ev.Sequence().IsAbsent())
	assert.False(t, ev.IsUpdate())
	assert.Empty(t, ev.Location())
}

func TestEvent_Sequence(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		want     int
		present  bool
		isUpdate bool
	}{
		{name: "zero", value: "0", want: 0, present: true, isUpdate: false},
		{name: "incremented", value: "3", want: 3, present: true, isUpdate: true},
		{name: "garbage", value: "x", present: false, isUpdate: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := NewEvent(nil)
			ev.SetAttribute(ical.PropSequence, tt.value, nil)

			seq, ok := ev.Sequence().Get()
			assert.Equal(t, tt.present, ok)
			if tt.present {
				assert.Equal(t, tt.want, seq)
			}
			assert.Equal(t, tt.isUpdate, ev.IsUpdate())
		})
	}
}

func TestParseEvent(t *testing.T) {
	ics := strings.Join([]string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//Test//Test//EN",
		"METHOD:REQUEST",
		"BEGIN:VEVENT",
		"UID:42",
		"DTSTAMP:20080926T080000Z",
		"DTSTART:20080926T090000Z",
		"DURATION:PT1H",
		"SUMMARY:Planning",
		"ORGANIZER;CN=Orga:mailto:orga@example.org",
		"END:VEVENT",
		"END:VCALENDAR",
		"",
	}, "\r\n")

	ev, err := ParseEvent(strings.NewReader(ics))
	require.NoError(t, err)

	assert.Equal(t, MethodRequest, ev.Method())
	assert.Equal(t, "Planning", ev.Summary())
	d, ok := ev.Duration().Get()
	require.True(t, ok)
	assert.Equal(t, time.Hour, d)
}

func TestEventFromCalendar_Errors(t *testing.T) {
	_, err := EventFromCalendar(nil)
	assert.Error(t, err)

	cal := ical.NewCalendar()
	_, err = EventFromCalendar(cal)
	assert.ErrorContains(t, err, "no events")

	cal.Children = append(cal.Children,
		ical.NewComponent(ical.CompEvent),
		ical.NewComponent(ical.CompEvent))
	_, err = EventFromCalendar(cal)
	assert.ErrorContains(t, err, "multiple events")
}
