package kardex

import "sync"

// keyedMutex mantiene un mutex por clave (producto o movimiento). El motor lo
// usa para sostener exclusión mutua durante toda la ventana leer-modificar-escribir
// de una operación: las escrituras contra el almacén no son transaccionales y el
// patrón leer-luego-escribir no es seguro por sí solo bajo concurrencia.
type keyedMutex struct {
	mu sync.Map // clave -> *sync.Mutex
}

// Lock bloquea la clave y devuelve la función de desbloqueo.
func (k *keyedMutex) Lock(key string) func() {
	v, _ := k.mu.LoadOrStore(key, &sync.Mutex{})
	m := v.(*sync.Mutex)
	m.Lock()
	return m.Unlock
}

// LockPair bloquea dos claves en orden lexicográfico para que dos enmiendas
// cruzadas sobre los mismos productos no puedan interbloquearse. Si las claves
// coinciden toma un solo lock.
func (k *keyedMutex) LockPair(a, b string) func() {
	if a == b {
		return k.Lock(a)
	}
	if b < a {
		a, b = b, a
	}
	ua := k.Lock(a)
	ub := k.Lock(b)
	return func() {
		ub()
		ua()
	}
}
