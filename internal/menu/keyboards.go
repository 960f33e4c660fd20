package menu

// Keyboard is a platform-neutral reply keyboard: rows of button captions.
// The transport renders it into whatever markup the chat platform wants.
type Keyboard struct {
	Rows   [][]string
	Resize bool
}

// MainKeyboard is the persistent menu shown after /start and Back.
func MainKeyboard() Keyboard {
	return Keyboard{
		Rows:   [][]string{{BtnSettings, BtnSubscription}},
		Resize: true,
	}
}

// SettingsKeyboard shows the settings entries. The admin panel row is
// rendered only for admins; non-admins never see the trigger. The dispatch
// gate and the panel handler still cover anyone who types it by hand.
func SettingsKeyboard(isAdmin bool) Keyboard {
	rows := [][]string{{BtnFormat}}
	if isAdmin {
		rows = append(rows, []string{BtnAdminPanel})
	}
	rows = append(rows, []string{BtnBack})
	return Keyboard{Rows: rows, Resize: true}
}

// FormatKeyboard lists the output quality choices.
func FormatKeyboard() Keyboard {
	return Keyboard{
		Rows: [][]string{
			{BtnH265, BtnH264, BtnAudio},
			{BtnBack},
		},
		Resize: true,
	}
}

// AdminPanelKeyboard lists the admin actions.
func AdminPanelKeyboard() Keyboard {
	return Keyboard{
		Rows: [][]string{
			{BtnStats, BtnTop10},
			{BtnAllUsers, BtnBroadcast},
			{BtnBack},
		},
		Resize: true,
	}
}
