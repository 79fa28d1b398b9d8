// Package caesar implementa la transformación reversible de secretos heredada
// del sistema anterior (cifrado por sustitución, shift fijo).
//
// NO es criptografía: cualquiera que conozca el shift recupera el texto plano.
// Se conserva únicamente para verificar secretos almacenados en el formato
// legado; los secretos nuevos se guardan con argon2id (ver security/password).
package caesar

// DefaultShift es el shift del formato de wire legado.
const DefaultShift = 3

// Obscure aplica el corrimiento sobre letras ASCII (mod 26) y dígitos (mod 10).
// Todo otro carácter pasa sin cambios. Determinística e invertible con Reveal.
func Obscure(plain string, shift int) string {
	return transform(plain, shift)
}

// Reveal es la inversa exacta de Obscure con el mismo shift.
func Reveal(obscured string, shift int) string {
	return transform(obscured, -shift)
}

func transform(s string, shift int) string {
	out := []byte(s)
	for i, c := range out {
		switch {
		case c >= 'A' && c <= 'Z':
			out[i] = 'A' + rot(int(c-'A'), shift, 26)
		case c >= 'a' && c <= 'z':
			out[i] = 'a' + rot(int(c-'a'), shift, 26)
		case c >= '0' && c <= '9':
			out[i] = '0' + rot(int(c-'0'), shift, 10)
		}
	}
	return string(out)
}

// rot calcula (v+shift) mod m con resultado siempre en [0,m), incluso para
// shifts negativos o mayores que m.
func rot(v, shift, m int) byte {
	r := (v + shift) % m
	if r < 0 {
		r += m
	}
	return byte(r)
}
