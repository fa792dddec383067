package demangle

// maxTupleElems is how many tuple elements are displayed before ", ...".
const maxTupleElems = 3

// basicTypes maps single-letter basic type tags to their display names.
var basicTypes = [26]string{
	'a' - 'a': "i8",
	'b' - 'a': "bool",
	'c' - 'a': "char",
	'd' - 'a': "f64",
	'e' - 'a': "str",
	'f' - 'a': "f32",
	'h' - 'a': "u8",
	'i' - 'a': "isize",
	'j' - 'a': "usize",
	'l' - 'a': "i32",
	'm' - 'a': "u32",
	'n' - 'a': "i128",
	'o' - 'a': "u128",
	'p' - 'a': "_",
	's' - 'a': "i16",
	't' - 'a': "u16",
	'u' - 'a': "()",
	'v' - 'a': "...",
	'x' - 'a': "i64",
	'y' - 'a': "u64",
	'z' - 'a': "!",
}

// parseType decodes one <type> and renders it.
func (d *demangler) parseType() error {
	if err := d.enter(); err != nil {
		return err
	}
	defer d.leave()

	tag := d.in.peek()
	if d.in.eof() {
		return ErrUnexpectedEnd
	}

	if isLower(tag) {
		name := basicTypes[tag-'a']
		if name == "" {
			return ErrInvalidMangled
		}
		d.in.pos++
		d.out.write(name)
		return nil
	}

	switch tag {
	case 'C', 'N', 'Y':
		return d.parsePath()
	case 'S':
		d.in.pos++
		d.out.writeByte('[')
		if err := d.parseType(); err != nil {
			return err
		}
		d.out.writeByte(']')
		return nil
	case 'R', 'Q':
		d.in.pos++
		if tag == 'R' {
			d.out.writeByte('&')
		} else {
			d.out.write("&mut ")
		}
		if err := d.erasedLifetime(); err != nil {
			return err
		}
		return d.parseType()
	case 'P':
		d.in.pos++
		d.out.write("*const ")
		return d.parseType()
	case 'O':
		d.in.pos++
		d.out.write("*mut ")
		return d.parseType()
	case 'T':
		d.in.pos++
		return d.parseTuple()
	case 'A', 'F', 'D', 'B', 'I', 'M', 'X', 'K':
		// Arrays, fn pointers, trait objects, back-references, generic and
		// impl paths, const arguments.
		return ErrUnsupported
	default:
		return ErrInvalidMangled
	}
}

// erasedLifetime consumes an optional "L_" after a reference tag. Named
// lifetimes need binder tracking and are rejected.
func (d *demangler) erasedLifetime() error {
	if !d.in.eat('L') {
		return nil
	}
	v, overflow, err := d.base62()
	if err != nil {
		return err
	}
	if overflow || v != 0 {
		return ErrUnsupported
	}
	return nil
}

// parseTuple decodes {type} "E" after the "T" tag. Elements after the
// third are parsed silently so the cursor still ends up past "E".
func (d *demangler) parseTuple() error {
	d.out.writeByte('(')
	count := 0
	for !d.in.eat('E') {
		if d.in.eof() {
			return ErrUnexpectedEnd
		}
		switch {
		case count == maxTupleElems:
			d.out.write(", ...")
		case count > 0 && count < maxTupleElems:
			d.out.write(", ")
		}

		if count >= maxTupleElems {
			d.out.quiet()
		}
		err := d.parseType()
		if count >= maxTupleElems {
			d.out.loud()
		}
		if err != nil {
			return err
		}
		count++
	}
	if count == 1 {
		d.out.writeByte(',')
	}
	d.out.writeByte(')')
	return nil
}
