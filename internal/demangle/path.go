package demangle

// maxDepth bounds path and type nesting.
const maxDepth = 256

// demangler holds parser state for one call. It lives on the caller's stack.
type demangler struct {
	in    cursor
	out   sink
	depth int
}

func (d *demangler) enter() error {
	d.depth++
	if d.depth > maxDepth {
		return ErrTooDeep
	}
	return nil
}

func (d *demangler) leave() {
	d.depth--
}

// parsePath decodes one <path> and renders it.
//
//	path = "C" identifier                  crate root
//	     | "N" namespace path identifier   nested item
//	     | "Y" type path                   <T as Trait>
func (d *demangler) parsePath() error {
	if err := d.enter(); err != nil {
		return err
	}
	defer d.leave()

	tag, err := d.in.next()
	if err != nil {
		return err
	}

	switch tag {
	case 'C':
		return d.parseCrateRoot()
	case 'N':
		return d.parseNested()
	case 'Y':
		return d.parseTraitDefinition()
	case 'M', 'X', 'I', 'B':
		// Impl paths, generic arguments and back-references.
		return ErrUnsupported
	default:
		return ErrInvalidMangled
	}
}

func (d *demangler) parseCrateRoot() error {
	// Crate disambiguators are hashes of the crate metadata; not shown.
	if _, _, err := d.disambiguator(); err != nil {
		return err
	}
	id, err := d.undisambiguatedIdent()
	if err != nil {
		return err
	}
	d.writeIdent(id)
	return nil
}

func (d *demangler) parseNested() error {
	ns, err := d.in.next()
	if err != nil {
		return err
	}
	if !isLower(ns) && !isUpper(ns) {
		return ErrInvalidMangled
	}

	if err := d.parsePath(); err != nil {
		return err
	}

	index, overflow, err := d.disambiguator()
	if err != nil {
		return err
	}
	id, err := d.undisambiguatedIdent()
	if err != nil {
		return err
	}

	d.out.write("::")
	if isLower(ns) {
		d.writeIdent(id)
		return nil
	}

	d.out.writeByte('{')
	switch ns {
	case 'C':
		d.out.write("closure")
	case 'S':
		d.out.write("shim")
	default:
		d.out.writeByte(ns)
	}
	if id.name != "" {
		d.out.writeByte(':')
		d.writeIdent(id)
	}
	d.out.writeByte('#')
	if overflow {
		d.out.writeByte('?')
	} else {
		d.out.writeDecimal(index)
	}
	d.out.writeByte('}')
	return nil
}

func (d *demangler) parseTraitDefinition() error {
	d.out.writeByte('<')
	if err := d.parseType(); err != nil {
		return err
	}
	d.out.write(" as ")
	if err := d.parsePath(); err != nil {
		return err
	}
	d.out.writeByte('>')
	return nil
}
