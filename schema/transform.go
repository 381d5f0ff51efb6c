package schema

import (
	"sort"
	"strconv"
	"strings"

	"github.com/Sjoshi-TYCS/witsml"
	"github.com/Sjoshi-TYCS/witsml/document"
)

// commonData141 are the commonData elements 1.3.1.1 does not define.
var commonData141 = []string{
	"serviceCategory",
	"acquisitionTimeZone",
	"defaultDatum",
	"privateGroupOnly",
	"extensionAny",
	"extensionNameValue",
}

// Transform converts an object element of typ between 1.3.1.1 and 1.4.1.1
// in place. Other version pairs are left as they are.
func Transform(el *document.Element, typ witsml.ObjectType, from, to witsml.DataVersion) {
	switch {
	case from == to:
	case from == witsml.DataVersion131 && to == witsml.DataVersion141:
		if typ == witsml.ObjectTypeLog {
			logTo141(el)
		}
	case from == witsml.DataVersion141 && to == witsml.DataVersion131:
		if cd := el.Child("commonData"); cd != nil {
			for _, name := range commonData141 {
				cd.RemoveChildren(name)
			}
		}
		if typ == witsml.ObjectTypeLog {
			logTo131(el)
		}
	}
}

func logTo141(el *document.Element) {
	curves := el.ChildrenNamed("logCurveInfo")
	column := func(c *document.Element) int {
		n, err := strconv.Atoi(strings.TrimSpace(c.ChildText("columnIndex")))
		if err != nil {
			return len(curves) + 1
		}
		return n
	}
	sort.SliceStable(curves, func(i, j int) bool { return column(curves[i]) < column(curves[j]) })
	el.ReplaceChildren("logCurveInfo", curves)

	var mnemonics, units []string
	for _, c := range curves {
		c.RemoveChildren("columnIndex")
		mnemonics = append(mnemonics, c.ChildText("mnemonic"))
		units = append(units, c.ChildText("unit"))
	}
	if ic := el.Child("indexCurve"); ic != nil {
		ic.RemoveAttr("columnIndex")
	}

	for _, ld := range el.ChildrenNamed("logData") {
		if ld.Child("mnemonicList") != nil {
			continue
		}
		data := ld.Children
		ld.Children = append([]*document.Element{
			document.NewText("mnemonicList", strings.Join(mnemonics, ",")),
			document.NewText("unitList", strings.Join(units, ",")),
		}, data...)
	}
}

func logTo131(el *document.Element) {
	curves := el.ChildrenNamed("logCurveInfo")
	columns := make(map[string]int, len(curves))
	for i, c := range curves {
		mnemonic := c.ChildText("mnemonic")
		columns[mnemonic] = i + 1
		if mnemonic != "" {
			c.RemoveChildren("columnIndex")
			c.AddChild(document.NewText("columnIndex", strconv.Itoa(i+1)))
		}
	}
	if ic := el.Child("indexCurve"); ic != nil {
		if n, ok := columns[ic.Text]; ok {
			ic.SetAttr("columnIndex", strconv.Itoa(n))
		}
	}
	for _, ld := range el.ChildrenNamed("logData") {
		ld.RemoveChildren("mnemonicList")
		ld.RemoveChildren("unitList")
	}
}
