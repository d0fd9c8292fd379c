package docxml

import "strings"

var functionKinds = map[string]bool{
	"function": true,
	"signal":   true,
	"slot":     true,
	"dcop":     true,
}

// memberScoped reports whether members of c are written with a qualified
// definition.
func memberScoped(c *Compound) bool {
	switch c.Kind {
	case "file", "group", "page":
		return false
	}
	return true
}

func (e *Emitter) writeMember(c *Compound, m *Member) error {
	o := &e.out
	cid := e.compoundID(c)
	fn := functionKinds[m.Kind]

	o.writeString("      <memberdef")
	o.attr("kind", m.Kind)
	o.attr("id", refID(cid, m.ID))
	o.attr("prot", orDefault(m.Prot, "public"))
	o.attr("static", yesNo(m.Static))
	if fn {
		o.attr("const", yesNo(m.Const))
		o.attr("volatile", yesNo(m.Volatile))
		o.attr("virt", orDefault(m.Virt, "non-virtual"))
	}
	o.writeString(">\n")

	if m.Kind != "enum" && m.Kind != "define" {
		o.writeString("        <type>")
		o.linkify(m.Type, e.cfg.resolver)
		o.writeString("</type>\n")
		name := m.Name
		if memberScoped(c) {
			name = c.Name + "::" + m.Name
		}
		o.writeString("        <definition>")
		o.escape(strings.TrimSpace(m.Type + " " + name))
		o.writeString("</definition>\n")
		o.writeString("        <argsstring>")
		o.escape(m.Args)
		o.writeString("</argsstring>\n")
	}
	o.writeString("        <name>")
	o.escape(m.Name)
	o.writeString("</name>\n")

	for _, r := range m.Reimplements {
		o.memberRef("reimplements", r)
	}
	for _, r := range m.ReimplementedBy {
		o.memberRef("reimplementedby", r)
	}
	for _, p := range m.Params {
		o.param(p, e.cfg.resolver)
	}
	if m.Kind == "enum" {
		for _, v := range m.EnumValues {
			if err := e.writeEnumValue(cid, v); err != nil {
				return err
			}
		}
	}
	if m.Initializer != "" {
		o.writeString("        <initializer>")
		o.linkify(m.Initializer, e.cfg.resolver)
		o.writeString("</initializer>\n")
	}
	if m.Exceptions != "" {
		o.writeString("        <exceptions>")
		o.linkify(m.Exceptions, e.cfg.resolver)
		o.writeString("</exceptions>\n")
	}
	prefix := refID(cid, m.ID)
	if err := e.writeDescription("        ", "briefdescription", m.Brief, prefix); err != nil {
		return err
	}
	if err := e.writeDescription("        ", "detaileddescription", m.Detailed, prefix); err != nil {
		return err
	}
	o.location("        ", m.Location)
	for _, r := range m.References {
		o.memberRef("references", r)
	}
	for _, r := range m.ReferencedBy {
		o.memberRef("referencedby", r)
	}
	o.writeString("      </memberdef>\n")
	return nil
}

func (e *Emitter) writeEnumValue(cid string, v *Member) error {
	if v == nil {
		return nil
	}
	o := &e.out
	o.writeString("        <enumvalue")
	o.attr("id", refID(cid, v.ID))
	o.attr("prot", orDefault(v.Prot, "public"))
	o.writeString(">\n")
	o.writeString("          <name>")
	o.escape(v.Name)
	o.writeString("</name>\n")
	if v.Initializer != "" {
		o.writeString("          <initializer>")
		o.linkify(v.Initializer, e.cfg.resolver)
		o.writeString("</initializer>\n")
	}
	prefix := refID(cid, v.ID)
	if err := e.writeDescription("          ", "briefdescription", v.Brief, prefix); err != nil {
		return err
	}
	if err := e.writeDescription("          ", "detaileddescription", v.Detailed, prefix); err != nil {
		return err
	}
	o.writeString("        </enumvalue>\n")
	return nil
}

func (o *output) param(p Param, r Resolver) {
	o.writeString("        <param>\n")
	if p.Attributes != "" {
		o.writeString("          <attributes>")
		o.escape(p.Attributes)
		o.writeString("</attributes>\n")
	}
	if p.Type != "" {
		o.writeString("          <type>")
		o.linkify(p.Type, r)
		o.writeString("</type>\n")
	}
	if p.DeclName != "" {
		o.writeString("          <declname>")
		o.escape(p.DeclName)
		o.writeString("</declname>\n")
	}
	if p.DefName != "" {
		o.writeString("          <defname>")
		o.escape(p.DefName)
		o.writeString("</defname>\n")
	}
	if p.Array != "" {
		o.writeString("          <array>")
		o.escape(p.Array)
		o.writeString("</array>\n")
	}
	if p.DefVal != "" {
		o.writeString("          <defval>")
		o.linkify(p.DefVal, r)
		o.writeString("</defval>\n")
	}
	o.writeString("        </param>\n")
}

func (o *output) memberRef(tag string, r Ref) {
	o.writeString("        <" + tag)
	if r.Ref != "" {
		o.attr("refid", r.Ref)
	}
	o.writeString(">")
	o.escape(r.Name)
	o.writeString("</" + tag + ">\n")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
