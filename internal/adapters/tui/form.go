package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/ogurasousui/employee-organizer/internal/core/employee"
)

const (
	fieldFullName = iota
	fieldDOB
	fieldGender
	fieldPhone
	fieldEmail
	fieldAddress
	fieldAvatarPath
)

const (
	fieldEmpID = iota
	fieldDepartment
	fieldDesignation
	fieldJoinDate
	fieldLocation
	fieldSalary
)

var personalLabels = []string{"Full name", "Date of birth", "Gender", "Phone", "Email", "Address", "Avatar file"}

var officialLabels = []string{"Employee ID", "Department", "Designation", "Join date", "Location", "Salary"}

var personalPlaceholders = []string{"", "YYYY-MM-DD", "F / M / Other", "digits only", "", "", "path to png/jpeg/gif/webp, enter to load"}

var officialPlaceholders = []string{"", "", "", "YYYY-MM-DD", "", "optional"}

type fieldSet struct {
	labels []string
	inputs []textinput.Model
	focus  int
}

func newFieldSet(labels, placeholders []string) fieldSet {
	inputs := make([]textinput.Model, len(labels))
	for i := range labels {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 256
		ti.Width = 40
		ti.Placeholder = placeholders[i]
		inputs[i] = ti
	}
	fs := fieldSet{labels: labels, inputs: inputs}
	fs.inputs[0].Focus()
	return fs
}

func (f *fieldSet) value(i int) string {
	return f.inputs[i].Value()
}

func (f *fieldSet) setValue(i int, v string) {
	f.inputs[i].SetValue(v)
}

func (f *fieldSet) reset() {
	for i := range f.inputs {
		f.inputs[i].SetValue("")
	}
	f.focusOn(0)
}

func (f *fieldSet) focusOn(i int) tea.Cmd {
	if i < 0 {
		i = len(f.inputs) - 1
	}
	if i >= len(f.inputs) {
		i = 0
	}
	f.inputs[f.focus].Blur()
	f.focus = i
	return f.inputs[i].Focus()
}

func (f *fieldSet) next() tea.Cmd {
	return f.focusOn(f.focus + 1)
}

func (f *fieldSet) prev() tea.Cmd {
	return f.focusOn(f.focus - 1)
}

func (f *fieldSet) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f *fieldSet) render(s Styles) string {
	var b strings.Builder
	for i, in := range f.inputs {
		label := s.Label.Render(f.labels[i])
		marker := "  "
		if i == f.focus {
			marker = s.Selected.Render("> ")
		}
		b.WriteString(marker + label + " " + in.View() + "\n")
	}
	return b.String()
}

func personalFromFields(f *fieldSet) employee.Personal {
	return employee.Personal{
		FullName: f.value(fieldFullName),
		DOB:      f.value(fieldDOB),
		Gender:   f.value(fieldGender),
		Phone:    f.value(fieldPhone),
		Email:    f.value(fieldEmail),
		Address:  f.value(fieldAddress),
	}
}

func fillPersonal(f *fieldSet, p employee.Personal) {
	f.setValue(fieldFullName, p.FullName)
	f.setValue(fieldDOB, p.DOB)
	f.setValue(fieldGender, p.Gender)
	f.setValue(fieldPhone, p.Phone)
	f.setValue(fieldEmail, p.Email)
	f.setValue(fieldAddress, p.Address)
}

func officialFromFields(f *fieldSet) employee.Official {
	return employee.Official{
		EmployeeID:  f.value(fieldEmpID),
		Department:  f.value(fieldDepartment),
		Designation: f.value(fieldDesignation),
		JoinDate:    f.value(fieldJoinDate),
		Location:    f.value(fieldLocation),
		Salary:      f.value(fieldSalary),
	}
}

func fillOfficial(f *fieldSet, o employee.Official) {
	f.setValue(fieldEmpID, o.EmployeeID)
	f.setValue(fieldDepartment, o.Department)
	f.setValue(fieldDesignation, o.Designation)
	f.setValue(fieldJoinDate, o.JoinDate)
	f.setValue(fieldLocation, o.Location)
	f.setValue(fieldSalary, o.Salary)
}
