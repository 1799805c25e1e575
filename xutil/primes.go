package xutil

// primeTable lists small-to-medium primes used to size hash tables. Growth
// always rounds up to the next entry, matching next_prime_u32_integer in
// the original implementation: bucketed hash tables resize to "next prime
// >= requested size" rather than doubling to a power of two.
var primeTable = []uint32{
	7, 13, 17, 29, 37, 53, 71, 97, 127, 173, 233, 307, 409, 541, 727, 971,
	1297, 1733, 2309, 3079, 4111, 5483, 7309, 9749, 13003, 17333, 23117,
	30827, 41099, 54787, 73061, 97421, 129899, 173201, 230921, 307891,
	410527, 547369, 729829, 973121, 1297459, 1729949, 2306599, 3075467,
	4100629, 5467511, 7290017, 9720023, 12960031, 17280041, 23040053,
	30720061, 40960003, 54613333, 72817769, 97090361, 129453811, 172605083,
}

// NextPrime returns the smallest table prime >= n, or the largest prime in
// the table if n exceeds it (the cache/hash table is then left oversized
// rather than failing — callers are expected to stay within practical
// table sizes for an embedded device).
func NextPrime(n uint32) uint32 {
	for _, p := range primeTable {
		if p >= n {
			return p
		}
	}
	return primeTable[len(primeTable)-1]
}
