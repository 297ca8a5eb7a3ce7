package booking

// Descriptor is how every client renders a status.
type Descriptor struct {
	Label string `json:"label"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

var descriptors = map[Status]Descriptor{
	StatusPending:    {Label: "Pending approval", Icon: "clock", Color: "yellow"},
	StatusProcessing: {Label: "Awaiting payment", Icon: "credit-card", Color: "blue"},
	StatusPaid:       {Label: "Paid", Icon: "check-circle", Color: "green"},
	StatusCheckedIn:  {Label: "Checked in", Icon: "log-in", Color: "indigo"},
	StatusCheckedOut: {Label: "Checked out", Icon: "log-out", Color: "purple"},
	StatusCompleted:  {Label: "Completed", Icon: "award", Color: "emerald"},
	StatusCancelled:  {Label: "Cancelled", Icon: "x-circle", Color: "red"},
	StatusRefunded:   {Label: "Refunded", Icon: "rotate-ccw", Color: "gray"},
}

// Describe returns false for values outside the status enumeration; there is
// no "unknown" fallback.
func Describe(s Status) (Descriptor, bool) {
	d, ok := descriptors[s]
	return d, ok
}

type StatusDescriptor struct {
	Status Status `json:"status"`
	Descriptor
	Terminal bool     `json:"terminal"`
	Actions  []Action `json:"actions"`
}

// DescriptorTable lists every status with its descriptor, in lifecycle order.
func DescriptorTable() []StatusDescriptor {
	all := AllStatuses()
	table := make([]StatusDescriptor, 0, len(all))
	for _, s := range all {
		table = append(table, StatusDescriptor{
			Status:     s,
			Descriptor: descriptors[s],
			Terminal:   s.IsTerminal(),
			Actions:    AllowedActions(s),
		})
	}
	return table
}
