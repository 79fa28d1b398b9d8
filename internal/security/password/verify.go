package password

import (
	"crypto/subtle"
	"strconv"
	"strings"

	"github.com/dropDatabas3/campusgate/internal/security/caesar"
)

// VerifySecret verifica un secreto plano contra lo almacenado, soportando los
// formatos que conviven en la base:
//
//   - PHC argon2id ($argon2id$...): secretos nuevos.
//   - "caesar$<shift>$<texto>": secretos migrados del sistema anterior con el
//     shift explícito.
//   - Cualquier otro valor se asume oscurecido con el shift por defecto
//     (compatibilidad de wire con los registros más viejos).
func VerifySecret(plain, stored string) bool {
	if stored == "" {
		return false
	}
	if strings.HasPrefix(stored, "$argon2id$") {
		return Verify(plain, stored)
	}

	shift := caesar.DefaultShift
	if rest, ok := strings.CutPrefix(stored, "caesar$"); ok {
		sh, obscured, found := strings.Cut(rest, "$")
		if !found {
			return false
		}
		n, err := strconv.Atoi(sh)
		if err != nil {
			return false
		}
		shift, stored = n, obscured
	}

	obscured := caesar.Obscure(plain, shift)
	return subtle.ConstantTimeCompare([]byte(obscured), []byte(stored)) == 1
}
