package scheduling

import "fmt"

const (
	dayStartMinute = 9 * 60
	dayEndMinute   = 18 * 60
	slotStep       = 5
)

// SlotCount is the number of bookable slots in a day.
const SlotCount = (dayEndMinute-dayStartMinute)/slotStep + 1

// GenerateSlots returns the bookable wall-clock times of a working day,
// "09:00" through "18:00" inclusive in 5-minute steps. The catalogue is not
// filtered by existing bookings.
func GenerateSlots() []string {
	slots := make([]string, 0, SlotCount)
	for m := dayStartMinute; m <= dayEndMinute; m += slotStep {
		slots = append(slots, fmt.Sprintf("%02d:%02d", m/60, m%60))
	}
	return slots
}

var slotIndex = func() map[string]bool {
	idx := make(map[string]bool, SlotCount)
	for _, s := range GenerateSlots() {
		idx[s] = true
	}
	return idx
}()

// IsSlot reports whether t is in the slot catalogue.
func IsSlot(t string) bool { return slotIndex[t] }
