package model

type Activity struct {
	Name            string   `yaml:"name" json:"-"`
	Description     string   `yaml:"description" json:"description"`
	Schedule        string   `yaml:"schedule" json:"schedule"`
	MaxParticipants int      `yaml:"max_participants" json:"max_participants"`
	Participants    []string `yaml:"participants" json:"participants"`
}

func (a Activity) Clone() Activity {
	out := a
	out.Participants = make([]string, len(a.Participants))
	copy(out.Participants, a.Participants)
	return out
}

func (a Activity) HasParticipant(email string) bool {
	for _, p := range a.Participants {
		if p == email {
			return true
		}
	}
	return false
}

func (a Activity) IsFull() bool {
	return a.MaxParticipants > 0 && len(a.Participants) >= a.MaxParticipants
}
