package cat

import (
	"strconv"
	"strings"

	"github.com/dougsko/tm710/pkg/logging"
	"github.com/dougsko/tm710/pkg/tables"
)

// MenuRegister is the MU settings vector. Fields are opaque strings so
// that a write carries every field the codec does not know about back to
// the radio unchanged.
type MenuRegister []string

// Clone returns an independent copy
func (m MenuRegister) Clone() MenuRegister {
	out := make(MenuRegister, len(m))
	copy(out, m)
	return out
}

// Field returns the field at index
func (m MenuRegister) Field(index int) (string, bool) {
	if index < 0 || index >= len(m) {
		return "", false
	}
	return m[index], true
}

// String returns the comma-joined wire form
func (m MenuRegister) String() string {
	return strings.Join(m, ",")
}

func menuRegister(request string, fields Fields) (MenuRegister, error) {
	if len(fields) < tables.MenuMinFields {
		return nil, malformed(request, fields.Raw(), "menu register has %d fields, need at least %d", len(fields), tables.MenuMinFields)
	}
	return MenuRegister(fields).Clone(), nil
}

// ReadMenu fetches the menu register. It is never cached.
func (r *Radio) ReadMenu() (MenuRegister, error) {
	fields, err := r.Transact("MU", "")
	if err != nil {
		return nil, err
	}
	return menuRegister("MU", fields)
}

// WriteMenuField writes reg with one field replaced and returns the
// register the radio echoes back, which is authoritative.
func (r *Radio) WriteMenuField(reg MenuRegister, index int, value string) (MenuRegister, error) {
	if index < 0 || index >= len(reg) {
		return nil, &ValidationError{
			Field: "menu index",
			Value: strconv.Itoa(index),
			Valid: "0-" + strconv.Itoa(len(reg)-1),
		}
	}
	if strings.ContainsAny(value, ",\r") {
		return nil, &ValidationError{Field: "menu value", Value: value, Valid: "a single field"}
	}

	updated := reg.Clone()
	updated[index] = value

	logging.Debug("cat", "menu write", map[string]interface{}{"index": index, "old": reg[index], "new": value})
	fields, err := r.Transact("MU", updated.String())
	if err != nil {
		return nil, err
	}
	return menuRegister("MU", fields)
}

// Setting decodes one named setting from the register
func (m MenuRegister) Setting(setting tables.MenuSetting) (string, error) {
	raw, ok := m.Field(setting.Index)
	if !ok {
		return "", malformed("MU", m.String(), "no field %d for %s", setting.Index, setting.Name)
	}
	i, err := strconv.Atoi(raw)
	if err != nil {
		return "", malformed("MU", m.String(), "%s field %q is not a number", setting.Name, raw)
	}
	label, ok := setting.Table.Lookup(i)
	if !ok {
		return "", malformed("MU", m.String(), "%s code %d unknown", setting.Name, i)
	}
	return label, nil
}

// GetMenuSetting reads the register and decodes one named setting
func (r *Radio) GetMenuSetting(setting tables.MenuSetting) (string, error) {
	reg, err := r.ReadMenu()
	if err != nil {
		return "", err
	}
	return reg.Setting(setting)
}

// SetMenuSetting validates token against the setting's table, then does a
// read-modify-write of the register. It returns the value the radio
// reports afterwards.
func (r *Radio) SetMenuSetting(setting tables.MenuSetting, token string) (string, error) {
	token = strings.TrimSpace(token)
	if setting.Unit != "" {
		token = strings.TrimSpace(strings.TrimSuffix(strings.ToLower(token), setting.Unit))
	}
	i, ok := setting.Table.Index(token)
	if !ok {
		return "", &ValidationError{Field: setting.Name, Value: token, Valid: "one of " + setting.Table.String()}
	}

	reg, err := r.ReadMenu()
	if err != nil {
		return "", step("read menu", err)
	}
	echoed, err := r.WriteMenuField(reg, setting.Index, strconv.Itoa(i))
	if err != nil {
		return "", step("write menu", err)
	}

	if setting.Index == tables.MenuDataSide {
		if err := r.refreshDisplay(); err != nil {
			return "", step("refresh display", err)
		}
	}

	return echoed.Setting(setting)
}

// refreshDisplay moves CTRL to the other side and back. The radio does not
// redraw the data-side indicator after an MU write until CTRL moves.
func (r *Radio) refreshDisplay() error {
	state, err := r.GetPttCtrl()
	if err != nil {
		return err
	}
	moved := state
	moved.CTRL = state.CTRL.Other()
	if _, err := r.SetPttCtrl(moved); err != nil {
		return err
	}
	_, err = r.SetPttCtrl(state)
	return err
}
